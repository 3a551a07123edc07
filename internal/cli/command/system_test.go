//go:build unix

package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/corelink-go/internal/infra/buildinfo"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
)

func TestHealth(t *testing.T) {
	ts := newTestService(t)

	stdout, _, err := ts.run("health")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Service is healthy")
	assert.Contains(t, stdout, ts.endpoint)

	stdout, _, err = ts.run("-o", "json", "health")
	require.NoError(t, err)
	var got handler.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "healthy", got.Status)
}

func TestHealth_Unreachable(t *testing.T) {
	ts := newTestService(t)
	ts.endpoint += ".missing"

	_, _, err := ts.run("health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")
}

func TestServiceStatus(t *testing.T) {
	ts := newTestService(t)

	stdout, _, err := ts.run("status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version")
	assert.Contains(t, stdout, "Event sessions")
	assert.Contains(t, stdout, "stopped")

	stdout, _, err = ts.run("-o", "json", "status")
	require.NoError(t, err)
	var got handler.StatusResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, buildinfo.Version, got.Version)
	assert.NotZero(t, got.PID)
}

func TestVersion(t *testing.T) {
	ts := newTestService(t)

	stdout, _, err := ts.run("version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client:")
	assert.Contains(t, stdout, "Service:")

	stdout, _, err = ts.run("-o", "json", "version", "--client")
	require.NoError(t, err)
	var got versions
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, buildinfo.Get().Platform, got.Client.Platform)
	assert.Nil(t, got.Service)
}
