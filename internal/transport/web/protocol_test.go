package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ripples/internal/loop"
	"github.com/tomz197/ripples/internal/object"
)

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEncodeBurstCarriesEveryField(t *testing.T) {
	msg := marshalToMap(t, encodeBurst(loop.Burst{
		PointID: 7,
		X:       1,
		Y:       2,
		Award:   110,
		Chain:   1,
		Score:   330,
		At:      time.Now(),
	}))

	assert.Equal(t, map[string]any{
		"type":  TypeBurst,
		"x":     1.0,
		"y":     2.0,
		"award": 110.0,
		"chain": 1.0,
		"score": 330.0,
	}, msg)
}

func TestEncodeSnapshotPopups(t *testing.T) {
	snap := &loop.Snapshot{
		State:  loop.StateRunning,
		Score:  330,
		Chain:  3,
		Screen: object.NewScreen(640, 400),
		Popups: []loop.Popup{{X: 1, Y: 2, Award: 110, Chain: 3}},
	}
	msg := marshalToMap(t, encodeSnapshot(snap))

	for _, key := range []string{"type", "score", "chain", "chainActive", "width", "height", "shapes", "popups"} {
		assert.Contains(t, msg, key)
	}
	popups, ok := msg["popups"].([]any)
	require.True(t, ok)
	require.Len(t, popups, 1)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "award": 110.0, "chain": 3.0}, popups[0])
}
