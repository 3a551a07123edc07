package command

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corelink-go/internal/cli/connection"
	"github.com/yndnr/corelink-go/internal/cli/output"
	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
)

// CoreCommand returns the core subcommand group.
func CoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "core",
		Usage: "Manage the core process",
		Subcommands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start a core with a configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Aliases:  []string{"t"},
						Usage:    "Core variant: " + coreTypeList(),
						Required: true,
					},
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Core configuration file",
						Required: true,
					},
				},
				Action: coreStart,
			},
			{
				Name:   "stop",
				Usage:  "Stop the running core",
				Action: coreStop,
			},
			{
				Name:   "restart",
				Usage:  "Restart the running core with its last parameters",
				Action: coreRestart,
			},
			{
				Name:   "status",
				Usage:  "Show core status",
				Action: coreStatus,
			},
			{
				Name:  "logs",
				Usage: "Show captured core output",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "lines",
						Aliases: []string{"n"},
						Usage:   "Number of lines (0 for all retained)",
						Value:   50,
					},
				},
				Action: coreLogs,
			},
		},
	}
}

func coreTypeList() string {
	names := make([]string, len(domain.CoreTypes))
	for i, t := range domain.CoreTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func coreStart(c *cli.Context) error {
	configFile := c.String("config")
	// The service resolves the file in its own working directory.
	if abs, err := filepath.Abs(configFile); err == nil {
		configFile = abs
	}

	req := handler.StartRequest{
		CoreType:   c.String("type"),
		ConfigFile: configFile,
	}
	return transition(c, "/core/start", req,
		fmt.Sprintf("Starting %s", req.CoreType),
		fmt.Sprintf("Core %s started", req.CoreType))
}

func coreStop(c *cli.Context) error {
	return transition(c, "/core/stop", nil, "Stopping core", "Core stopped")
}

func coreRestart(c *cli.Context) error {
	return transition(c, "/core/restart", nil, "Restarting core", "Core restarted")
}

// transition posts a lifecycle request behind a spinner.
func transition(c *cli.Context, path string, body any, progress, done string) error {
	client := Client(c)

	var spinner *output.Spinner
	if interactive(c) {
		spinner = output.NewSpinner(c.App.ErrWriter, progress)
		spinner.Start()
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := post(ctx, client, path, body)
	if spinner != nil {
		if err != nil {
			spinner.Fail(progress + " failed")
		} else {
			spinner.Success(done)
		}
	}
	if err != nil {
		return err
	}

	if !interactive(c) {
		return printResult(c, handler.Success(nil))
	}
	return nil
}

func post(ctx context.Context, client *connection.HTTPClient, path string, body any) error {
	resp, err := client.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return connection.ParseResponse(resp, nil)
}

func coreStatus(c *cli.Context) error {
	client := Client(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	var status handler.StatusResponse
	if err := get(ctx, client, "/status", &status); err != nil {
		return err
	}
	return printResult(c, coreStatusView(status.Core))
}

func coreLogs(c *cli.Context) error {
	n := c.Int("lines")
	if n < 0 {
		return fmt.Errorf("--lines must not be negative")
	}

	client := Client(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	q := url.Values{}
	q.Set("lines", strconv.Itoa(n))

	var logs handler.LogsResponse
	if err := get(ctx, client, "/core/logs?"+q.Encode(), &logs); err != nil {
		return err
	}

	if interactive(c) {
		// Raw lines read better than a table for process output.
		for _, l := range logs.Lines {
			fmt.Fprintln(c.App.Writer, l.Line)
		}
		return nil
	}
	return printResult(c, logLinesView(logs.Lines))
}

func get(ctx context.Context, client *connection.HTTPClient, path string, target any) error {
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return connection.ParseResponse(resp, target)
}
