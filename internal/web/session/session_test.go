package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrmsuite/hrms/internal/config"
)

func TestNewSQLite(t *testing.T) {
	store, err := New(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite}})
	require.NoError(t, err)

	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("revoked:abc", []byte("1"), time.Minute))

	val, err := store.Get("revoked:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	val, err = store.Get("revoked:unknown")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, ErrUnsupportedEngine)
}
