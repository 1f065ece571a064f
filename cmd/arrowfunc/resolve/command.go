package resolve

import (
	"fmt"

	"github.com/brimdata/arrowfunc/pkg/arrowtype"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	var fn string
	cmd := &cobra.Command{
		Use:   "resolve type",
		Short: "print the return type of a function for an argument type",
		Long: `
The resolve command prints the type returned when the function named
by --fn is applied to a value of the given Arrow type, e.g.,

  arrowfunc resolve "fixed_size_list<utf8, 2>"

prints "utf8".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := arrowtype.Parse(args[0])
			if err != nil {
				return err
			}
			f, err := function.New(nil, fn, 1)
			if err != nil {
				return err
			}
			ret, err := f.ReturnType(typ)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ret)
			return err
		},
	}
	cmd.Flags().StringVar(&fn, "fn", "array_any_value", "function to resolve")
	return cmd
}
