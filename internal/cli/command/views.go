package command

import (
	"strconv"
	"time"

	"github.com/yndnr/corelink-go/internal/cli/output"
	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
)

type coreStatusView domain.CoreStatus

func (v coreStatusView) Table() *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("State", string(v.State))
	t.AddRow("Core", string(v.CoreType))
	t.AddRow("Config", v.ConfigFile)
	t.AddRow("PID", optionalInt(v.PID))
	t.AddRow("Uptime", uptime(v.StartedAt))
	t.AddRow("Restarts", strconv.Itoa(v.Restarts))
	t.AddRow("Last error", v.LastError)
	return t
}

type serviceStatusView handler.StatusResponse

func (v serviceStatusView) Table() *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("Version", v.Version)
	t.AddRow("PID", optionalInt(v.PID))
	t.AddRow("Uptime", (time.Duration(v.UptimeSeconds) * time.Second).String())
	t.AddRow("Connections", strconv.FormatInt(v.Connections, 10))
	t.AddRow("Event sessions", strconv.Itoa(v.Sessions))
	t.AddRow("Core", string(v.Core.State))
	t.AddRow("Core type", string(v.Core.CoreType))
	return t
}

type logLinesView []domain.LogLine

func (v logLinesView) Table() *output.Table {
	t := output.NewTable("TIME", "STREAM", "LINE")
	for _, l := range v {
		t.AddRow(l.Time.Format(time.RFC3339), l.Stream, l.Line)
	}
	return t
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func uptime(since time.Time) string {
	if since.IsZero() {
		return ""
	}
	return time.Since(since).Truncate(time.Second).String()
}
