//go:build unix

package command

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/corelink-go/internal/core/event"
)

// emitWhenSubscribed publishes evs once the CLI session has subscribed.
func emitWhenSubscribed(t *testing.T, bus *event.Bus, evs ...event.Event) {
	t.Helper()
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for bus.Subscribers() == 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		for _, ev := range evs {
			bus.Publish(ev)
		}
	}()
}

func TestEvents_Count(t *testing.T) {
	ts := newTestService(t)
	emitWhenSubscribed(t, ts.bus,
		event.New(event.TypeCoreState, map[string]string{"state": "starting"}),
		event.New(event.TypeCoreState, map[string]string{"state": "running"}),
	)

	stdout, _, err := ts.run("-o", "json", "events", "--count", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)

	var ev event.Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	assert.Equal(t, event.TypeCoreState, ev.Type)
	assert.JSONEq(t, `{"state":"running"}`, string(ev.Payload))
}

func TestEvents_TypeFilter(t *testing.T) {
	ts := newTestService(t)
	emitWhenSubscribed(t, ts.bus,
		event.New(event.TypeCoreLog, map[string]string{"line": "noise"}),
		event.New(event.TypeCoreExit, map[string]int{"exit_code": 3}),
	)

	stdout, _, err := ts.run("events", "--type", event.TypeCoreExit, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, event.TypeCoreExit)
	assert.Contains(t, stdout, `"exit_code":3`)
	assert.NotContains(t, stdout, "noise")
}

func TestEvents_NoService(t *testing.T) {
	ts := newTestService(t)
	ts.endpoint += ".missing"

	_, _, err := ts.run("events")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open event stream")
}
