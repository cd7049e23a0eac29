package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPop(t *testing.T) {
	tm := newTimer(30*time.Millisecond, t0)

	assert.Equal(t, 0, tm.overdue(at(29)))
	assert.Equal(t, 1, tm.overdue(at(30)))
	assert.Equal(t, 3, tm.overdue(at(95)))

	assert.Equal(t, at(30), tm.pop())
	assert.Equal(t, at(60), tm.pop())
	assert.Equal(t, at(90), tm.next)
}

func TestTimerResync(t *testing.T) {
	tm := newTimer(30*time.Millisecond, t0)
	assert.False(t, tm.resync(at(100)), "a few missed intervals are replayed")
	assert.Equal(t, at(30), tm.next)

	assert.True(t, tm.resync(at(1000)))
	assert.Equal(t, at(1000), tm.pop())
	assert.Equal(t, at(1030), tm.next)

	tm.reset(at(2000))
	assert.Equal(t, at(2030), tm.next)
}
