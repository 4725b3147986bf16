package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeParsesNaiveTimestamps(t *testing.T) {
	var n Notification
	// FastAPI emits naive ISO timestamps without a zone offset.
	err := json.Unmarshal([]byte(`{"id":1,"created_at":"2026-03-01T09:30:00.123456","due_date":"2026-03-05T23:59:00"}`), &n)
	require.NoError(t, err)

	assert.Equal(t, 2026, n.CreatedAt.Year())
	assert.Equal(t, time.March, n.CreatedAt.Month())
	require.NotNil(t, n.DueDate)
	assert.Equal(t, 23, n.DueDate.Hour())
}

func TestTimeParsesRFC3339AndNull(t *testing.T) {
	var n Notification
	err := json.Unmarshal([]byte(`{"id":1,"created_at":"2026-03-01T09:30:00Z","due_date":null}`), &n)
	require.NoError(t, err)

	assert.False(t, n.CreatedAt.IsZero())
	assert.Nil(t, n.DueDate)
}

func TestTimeRejectsGarbage(t *testing.T) {
	var ts Time
	assert.Error(t, ts.UnmarshalJSON([]byte(`"not-a-time"`)))
}
