package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeZoneBatch(t *testing.T) {
	batch, err := DecodeZoneBatch([]byte(`{"tick": 7, "zones": [
		{"zone_id": "Z_0_0", "row": 0, "col": 0, "density": 3.2, "people_count": 32, "speed": 0.9, "direction_variance": 40},
		{"zone_id": "Z_0_1", "row": 0, "col": 1, "density": 1.1}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, int64(7), batch.Tick)
	require.Len(t, batch.Zones, 2)
	assert.Equal(t, 3.2, *batch.Zones[0].Density)
	assert.Equal(t, 40.0, *batch.Zones[0].Variance)
	assert.True(t, batch.Zones[0].HasMovement())
	assert.False(t, batch.Zones[1].HasMovement())
}

func TestDecodeZoneBatchErrors(t *testing.T) {
	_, err := DecodeZoneBatch([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeZoneBatch([]byte(`{"tick": 1}`))
	assert.ErrorContains(t, err, "missing zones")

	batch, err := DecodeZoneBatch([]byte(`{"tick": 2, "zones": []}`))
	require.NoError(t, err)
	assert.Empty(t, batch.Zones)
}
