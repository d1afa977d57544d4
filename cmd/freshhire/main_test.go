package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"migrate"},
		{"migrate", "status"},
		{"jobs", "import"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestJobsImportNeedsPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory")
	t.Setenv("PUBLIC_API_KEY", "k")
	rootCmd.SetArgs([]string{"jobs", "import", "catalog.yaml"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Postgres")
}
