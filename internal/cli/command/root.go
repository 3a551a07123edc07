package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	clicfg "github.com/yndnr/corelink-go/internal/cli/config"
	"github.com/yndnr/corelink-go/internal/cli/connection"
	"github.com/yndnr/corelink-go/internal/cli/output"
	"github.com/yndnr/corelink-go/internal/infra/buildinfo"
	"github.com/yndnr/corelink-go/internal/server/config"
	"github.com/yndnr/corelink-go/internal/server/localserver"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "corelink-cli",
		Usage:   "Control a running corelink-service over its local endpoint",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			CoreCommand(),
			EventsCommand(),
			HealthCommand(),
			StatusCommand(),
			VersionCommand(),
			ConfigCommand(),
		},
		Before: func(c *cli.Context) error {
			if err := applyConfigFile(c); err != nil {
				return err
			}
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
	}
}

// applyConfigFile fills global flags that were not given on the command
// line or in the environment from the CLI config file.
func applyConfigFile(c *cli.Context) error {
	cfg, err := clicfg.Load(c.String("config"))
	if err != nil {
		return err
	}
	for _, key := range clicfg.Keys {
		v, _ := cfg.Get(key)
		if v == "" || c.IsSet(key) {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("apply %s from cli config: %w", key, err)
		}
	}
	return nil
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"CORELINK_CLI_CONFIG"},
			Value:   clicfg.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "Service socket or named pipe path",
			EnvVars: []string{"CORELINK_ENDPOINT"},
			Value:   localserver.DefaultPath(config.DefaultLocalName),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:  "no-headers",
			Usage: "Omit table headers",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Print request details to stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Endpoint  string
	Output    output.Format
	NoHeaders bool
	Timeout   time.Duration
	Verbose   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		Endpoint:  c.String("endpoint"),
		Output:    format,
		NoHeaders: c.Bool("no-headers"),
		Timeout:   c.Duration("timeout"),
		Verbose:   c.Bool("verbose"),
	}
}

// Client returns an HTTP client for the configured endpoint.
func Client(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	if flags.Verbose {
		fmt.Fprintf(c.App.ErrWriter, "endpoint: %s\n", flags.Endpoint)
	}
	return connection.NewHTTPClient(flags.Endpoint, flags.Timeout)
}

// requestContext bounds one request by the --timeout flag.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, ParseGlobalFlags(c).Timeout)
}

// printResult writes data in the selected output format.
func printResult(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(flags.Output, flags.NoHeaders).Format(c.App.Writer, data)
}

// interactive reports whether progress and confirmation lines should be
// printed. Structured formats stay machine readable.
func interactive(c *cli.Context) bool {
	return ParseGlobalFlags(c).Output == output.FormatTable
}
