package root

import (
	"errors"
	"flag"
	"os"

	"github.com/brimdata/arrowfunc/cli"
	"github.com/brimdata/arrowfunc/cli/inputflags"
	"github.com/brimdata/arrowfunc/cli/logflags"
	"github.com/brimdata/arrowfunc/cli/outputflags"
	"github.com/brimdata/arrowfunc/cli/runtimeflags"
	"github.com/brimdata/arrowfunc/cmd/arrowfunc/functions"
	"github.com/brimdata/arrowfunc/cmd/arrowfunc/resolve"
	"github.com/brimdata/arrowfunc/pkg/storage"
	"github.com/brimdata/arrowfunc/runtime/exec"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const long = `
The "arrowfunc" command applies a list function to one column of a stream
of Arrow record batches and writes the batches back out with the result
appended as a new column.

Input is read from the named file or, if there is none or the file is "-",
from standard input.  Arrow IPC streams and Parquet files are detected
automatically.  JSON input requires a schema given with --schema, e.g.,

  arrowfunc -c xs --schema "id: int64, xs: list<int64>" -i json input.ndjson

The function defaults to array_any_value, which returns the first non-null
element of each list.  Run "arrowfunc functions" to list the functions.

Flags not given on the command line may be set in a YAML file named
with --config, which maps flag names to values.
`

type Command struct {
	config       string
	fn           string
	column       string
	as           string
	inputFlags   inputflags.Flags
	outputFlags  outputflags.Flags
	logFlags     logflags.Flags
	runtimeFlags runtimeflags.Flags
}

func New() *cobra.Command {
	c := &Command{}
	cmd := &cobra.Command{
		Use:           "arrowfunc [flags] [file]",
		Short:         "apply list functions to Arrow data",
		Long:          long,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.Run,
	}
	fs := flag.NewFlagSet("arrowfunc", flag.ContinueOnError)
	c.SetFlags(fs)
	cmd.Flags().AddGoFlagSet(fs)
	cmd.AddCommand(functions.New(), resolve.New())
	return cmd
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML file of flag defaults")
	fs.StringVar(&c.fn, "fn", "array_any_value", "function to apply")
	fs.StringVar(&c.column, "c", "", "name of the list column passed to the function")
	fs.StringVar(&c.as, "as", "", `name of the result column (default "fn(column)")`)
	c.inputFlags.SetFlags(fs)
	c.outputFlags.SetFlags(fs)
	c.logFlags.SetFlags(fs)
	c.runtimeFlags.SetFlags(fs)
}

func (c *Command) Init(cmd *cobra.Command) error {
	if c.config != "" {
		cfg, err := cli.LoadConfig(c.config)
		if err != nil {
			return err
		}
		if err := cfg.Apply(cmd.Flags()); err != nil {
			return err
		}
	}
	if c.column == "" {
		return errors.New("a list column must be named with -c")
	}
	if err := c.inputFlags.Init(); err != nil {
		return err
	}
	if err := c.outputFlags.Init(); err != nil {
		return err
	}
	return c.runtimeFlags.Init()
}

func (c *Command) Run(cmd *cobra.Command, args []string) error {
	if err := c.Init(cmd); err != nil {
		return err
	}
	logger, closeLog, err := c.logFlags.Open()
	if err != nil {
		return err
	}
	defer closeLog()
	fn, err := function.New(nil, c.fn, 1)
	if err != nil {
		return err
	}
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	ctx := cmd.Context()
	local := storage.NewFileSystem()
	rr, file, err := c.inputFlags.Open(ctx, local, path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer rr.Release()
	reg := prometheus.NewRegistry()
	runner, err := exec.NewRunner(fn, rr.Schema(), exec.Config{
		Column:  c.column,
		As:      c.as,
		Threads: c.runtimeFlags.Threads,
		Logger:  logger,
		Metrics: exec.NewMetrics(reg),
	})
	if err != nil {
		return err
	}
	w, err := c.outputFlags.Open(local, runner.Schema())
	if err != nil {
		return err
	}
	logger.Info("running", zap.String("function", fn.Name()), zap.String("input", path))
	err = runner.Run(ctx, rr, w)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if statsErr := c.runtimeFlags.PrintStats(os.Stderr, reg); err == nil {
		err = statsErr
	}
	return err
}
