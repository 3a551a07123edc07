package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corelink-go/internal/infra/buildinfo"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check service health",
		Action: health,
	}
}

// StatusCommand returns the service status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show service status summary",
		Action: serviceStatus,
	}
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show client and service versions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "client",
				Usage: "Only show the client version",
			},
		},
		Action: version,
	}
}

func health(c *cli.Context) error {
	client := Client(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.HealthResponse
	if err := get(ctx, client, "/health", &result); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if !interactive(c) {
		return printResult(c, result)
	}
	if result.Status != "healthy" {
		return fmt.Errorf("service is unhealthy: %s", result.Status)
	}
	fmt.Fprintf(c.App.Writer, "✓ Service is healthy\n")
	fmt.Fprintf(c.App.Writer, "  Endpoint: %s\n", client.Endpoint())
	return nil
}

func serviceStatus(c *cli.Context) error {
	client := Client(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	var status handler.StatusResponse
	if err := get(ctx, client, "/status", &status); err != nil {
		return err
	}
	return printResult(c, serviceStatusView(status))
}

type versions struct {
	Client  buildinfo.Info  `json:"client"`
	Service *buildinfo.Info `json:"service,omitempty"`
}

func version(c *cli.Context) error {
	v := versions{Client: buildinfo.Get()}

	if !c.Bool("client") {
		client := Client(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		var svc buildinfo.Info
		if err := get(ctx, client, "/version", &svc); err != nil {
			return err
		}
		v.Service = &svc
	}

	if !interactive(c) {
		return printResult(c, v)
	}
	fmt.Fprintf(c.App.Writer, "Client:  %s (%s) %s\n", v.Client.Version, v.Client.Commit, v.Client.Platform)
	if v.Service != nil {
		fmt.Fprintf(c.App.Writer, "Service: %s (%s) %s\n", v.Service.Version, v.Service.Commit, v.Service.Platform)
	}
	return nil
}
