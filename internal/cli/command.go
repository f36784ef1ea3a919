package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one diffuzz subcommand.
type Command struct {
	// Flags holds the command's own flags. Global flags are parsed by Run.
	Flags *flag.FlagSet

	// Usage follows "diffuzz" in help output, e.g. "replay <target> <file>...".
	Usage string

	// Short is the one-line description in the command listing.
	Short string

	// Long is shown by "diffuzz <cmd> --help"; Short is used when empty.
	Long string

	// Exec runs after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine is the command's row in the global usage.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
}

// PrintHelp prints usage, description and flags.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: diffuzz", c.Usage)
	o.Println()

	if c.Long != "" {
		o.Println(c.Long)
	} else {
		o.Println(c.Short)
	}

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	var buf strings.Builder

	c.Flags.SetOutput(&buf)
	c.Flags.PrintDefaults()

	o.Println()
	o.Println("Flags:")
	o.Printf("%s", buf.String())
}

// Run parses args and executes the command, returning the exit code. Errors
// are printed here so output order is the same for every command.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{})

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}
