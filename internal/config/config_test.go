package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, 20, c.Balance.KnightHP)
	assert.Equal(t, 5, c.Balance.RestHealPerCost)
}

func TestLoad_YamlOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  addr: \":9191\"\nbalance:\n  knight_hp: 25\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9191", c.Server.Addr)
	assert.Equal(t, 25, c.Balance.KnightHP)
	assert.Equal(t, "sqlite", c.Storage.Driver, "unset keys keep defaults")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SCOUNDREL_ADDR", ":7070")
	t.Setenv("SCOUNDREL_STORAGE_DRIVER", "memory")

	c := Default()
	require.NoError(t, FromEnv(c))
	assert.Equal(t, ":7070", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
}
