package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseOpenFile(t *testing.T) {
	config := Database{File: ":memory:"}
	require.True(t, config.Enabled())

	db, err := config.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
}

func TestDatabaseNotConfigured(t *testing.T) {
	config := Database{}
	require.False(t, config.Enabled())

	_, err := config.OpenDB()
	require.Error(t, err)
}
