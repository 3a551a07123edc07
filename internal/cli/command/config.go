package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	clicfg "github.com/yndnr/corelink-go/internal/cli/config"
	"github.com/yndnr/corelink-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI defaults",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the CLI config file",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Set a default (endpoint, output, timeout); an empty value clears it",
				ArgsUsage: "<key> <value>",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the CLI config file path",
				Action: configPath,
			},
		},
	}
}

type configView struct {
	cfg *clicfg.CLIConfig
}

func (v configView) Table() *output.Table {
	t := output.NewTable("KEY", "VALUE")
	for _, key := range clicfg.Keys {
		val, _ := v.cfg.Get(key)
		t.AddRow(key, val)
	}
	return t
}

func configShow(c *cli.Context) error {
	path := c.String("config")
	cfg, err := clicfg.Load(path)
	if err != nil {
		return err
	}
	if interactive(c) {
		return printResult(c, configView{cfg: cfg})
	}
	return printResult(c, cfg)
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set <key> <value>")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	path := c.String("config")
	cfg, err := clicfg.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := clicfg.Save(cfg, path); err != nil {
		return err
	}

	if interactive(c) {
		fmt.Fprintf(c.App.Writer, "✓ %s saved to %s\n", key, path)
	}
	return nil
}

func configPath(c *cli.Context) error {
	_, err := fmt.Fprintln(c.App.Writer, c.String("config"))
	return err
}
