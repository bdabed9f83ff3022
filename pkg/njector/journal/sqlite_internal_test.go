package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_CorruptTimestamp(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`
		INSERT INTO journal (event_id, kind, service_key, timestamp)
		VALUES ('evt', 'serviceAdded', 'db', 'yesterday')
	`)
	require.NoError(t, err)

	_, err = store.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse timestamp")

	_, err = store.ListByKey("db")
	assert.Error(t, err)
}
