package object

// Collection is an insertion-ordered set of live entities keyed by ID.
// Lookups and removals of unknown IDs are no-ops, so stale handles are safe.
type Collection struct {
	items []*Entity
	index map[uint64]int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[uint64]int)}
}

// Add appends e. Adding an ID that is already present is ignored.
func (c *Collection) Add(e *Entity) bool {
	if e == nil {
		return false
	}
	if _, ok := c.index[e.ID]; ok {
		return false
	}
	c.index[e.ID] = len(c.items)
	c.items = append(c.items, e)
	return true
}

// Remove deletes the entity with the given ID and reports whether it was present.
func (c *Collection) Remove(id uint64) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	delete(c.index, id)
	copy(c.items[i:], c.items[i+1:])
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID] = j
	}
	return true
}

// RemoveWhere deletes every entity for which fn returns true in a single
// compaction pass and returns the removed entities.
func (c *Collection) RemoveWhere(fn func(*Entity) bool) []*Entity {
	var removed []*Entity
	kept := c.items[:0]
	for _, e := range c.items {
		if fn(e) {
			removed = append(removed, e)
			delete(c.index, e.ID)
			continue
		}
		c.index[e.ID] = len(kept)
		kept = append(kept, e)
	}
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = nil
	}
	c.items = kept
	return removed
}

// Get returns the entity with the given ID.
func (c *Collection) Get(id uint64) (*Entity, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// Contains reports whether an entity with the given ID is present.
func (c *Collection) Contains(id uint64) bool {
	_, ok := c.index[id]
	return ok
}

// Len returns the number of live entities.
func (c *Collection) Len() int {
	return len(c.items)
}

// Snapshot returns a copy of the live entity list, safe to iterate while
// the collection is mutated.
func (c *Collection) Snapshot() []*Entity {
	out := make([]*Entity, len(c.items))
	copy(out, c.items)
	return out
}

// Shapes appends the render view of every entity to dst.
func (c *Collection) Shapes(dst []Shape) []Shape {
	for _, e := range c.items {
		dst = append(dst, e.Shape())
	}
	return dst
}
