//go:build unix

package command

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clicfg "github.com/yndnr/corelink-go/internal/cli/config"
)

func TestConfigSetShow(t *testing.T) {
	ts := newTestService(t)

	_, _, err := ts.run("config", "set", "output", "yaml")
	require.NoError(t, err)

	cfg, err := clicfg.Load(ts.configFile)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)

	// The saved default now applies without -o.
	stdout, _, err := ts.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "output: yaml")

	stdout, _, err = ts.run("-o", "table", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "KEY")
	assert.Contains(t, stdout, "endpoint")
}

func TestConfigSet_Invalid(t *testing.T) {
	ts := newTestService(t)

	_, _, err := ts.run("config", "set", "output", "xml")
	require.Error(t, err)

	_, _, err = ts.run("config", "set", "output")
	require.Error(t, err)

	_, statErr := os.Stat(ts.configFile)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestConfigFile_Endpoint(t *testing.T) {
	ts := newTestService(t)
	require.NoError(t, clicfg.Save(&clicfg.CLIConfig{Endpoint: ts.endpoint}, ts.configFile))

	// Without --endpoint the file supplies it.
	ts.endpoint = ""
	stdout, _, err := ts.run("health")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Service is healthy")
}

func TestConfigPath(t *testing.T) {
	ts := newTestService(t)

	stdout, _, err := ts.run("config", "path")
	require.NoError(t, err)
	assert.Equal(t, ts.configFile+"\n", stdout)
}
