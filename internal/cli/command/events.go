package command

import (
	"fmt"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/corelink-go/internal/cli/connection"
	"github.com/yndnr/corelink-go/internal/cli/output"
	"github.com/yndnr/corelink-go/internal/core/event"
)

// EventsCommand returns the events command.
func EventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Follow the service event stream until interrupted",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Only print events of this type (repeatable)",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Exit after this many printed events (0 for no limit)",
			},
		},
		Action: followEvents,
	}
}

func followEvents(c *cli.Context) error {
	count := c.Int("count")
	if count < 0 {
		return fmt.Errorf("--count must not be negative")
	}
	types := c.StringSlice("type")

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := requestContext(c)
	stream, err := Client(c).Events(dialCtx)
	cancel()
	if err != nil {
		return err
	}

	// Next blocks in a read; closing the stream is the only way to wake it.
	go func() {
		<-ctx.Done()
		_ = stream.Close()
	}()
	defer stream.Close()

	lines := &output.JSONFormatter{Compact: true}
	printed := 0
	for count == 0 || printed < count {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil || connection.IsNormalClose(err) {
				return nil
			}
			return fmt.Errorf("event stream: %w", err)
		}
		if len(types) > 0 && !slices.Contains(types, ev.Type) {
			continue
		}

		if err := printEvent(c, lines, ev); err != nil {
			return err
		}
		printed++
	}
	return nil
}

func printEvent(c *cli.Context, lines output.Formatter, ev event.Event) error {
	if !interactive(c) {
		return lines.Format(c.App.Writer, ev)
	}

	ts := time.UnixMilli(ev.Timestamp).Format("15:04:05.000")
	payload := string(ev.Payload)
	if payload == "" {
		payload = "-"
	}
	_, err := fmt.Fprintf(c.App.Writer, "%s  %-10s  %s\n", ts, ev.Type, payload)
	return err
}
