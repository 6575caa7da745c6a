package flights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
)

var ErrUsage = errors.New("usage")

const usage = `commands:
  list                              list all flights
  add NUMBER ORIGIN DESTINATION     add a flight
  show NUMBER                       show a flight`

// CLI is the flightdesk application, its fields are injected by the container.
type CLI struct {
	Service *Service
	Output  io.Writer
	Logger  *slog.Logger
}

// Run executes a single command, without arguments it lists flights.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	c.Logger.Debug("Executing command", "command", args[0])

	switch command, params := args[0], args[1:]; command {
	case "list":
		if len(params) != 0 {
			return c.usage("list takes no arguments")
		}
		return c.list(ctx)
	case "add":
		if len(params) != 3 {
			return c.usage("add takes 3 arguments")
		}
		return c.add(ctx, params[0], params[1], params[2])
	case "show":
		if len(params) != 1 {
			return c.usage("show takes 1 argument")
		}
		return c.show(ctx, params[0])
	default:
		return c.usage(fmt.Sprintf("unknown command %q", command))
	}
}

func (c *CLI) list(ctx context.Context) error {
	flights, err := c.Service.List(ctx)
	if err != nil {
		return err
	}

	if len(flights) == 0 {
		_, err = fmt.Fprintln(c.Output, "no flights")
		return err
	}

	w := tabwriter.NewWriter(c.Output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tORIGIN\tDESTINATION")

	for _, flight := range flights {
		fmt.Fprintf(w, "%s\t%s\t%s\n", flight.Number, flight.Origin, flight.Destination)
	}

	return w.Flush()
}

func (c *CLI) add(ctx context.Context, number, origin, destination string) error {
	flight, err := c.Service.Add(ctx, number, origin, destination)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.Output, "added %s\n", flight)
	return err
}

func (c *CLI) show(ctx context.Context, number string) error {
	flight, err := c.Service.Show(ctx, number)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Output, flight)
	return err
}

func (c *CLI) usage(problem string) error {
	return fmt.Errorf("%w: %s\n%s", ErrUsage, problem, usage)
}
