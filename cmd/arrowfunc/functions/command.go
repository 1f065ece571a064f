package functions

import (
	"fmt"
	"io"
	"strings"

	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/kr/text"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "list the available functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return List(cmd.OutOrStdout())
		},
	}
}

// List writes a description of each function to w.
func List(w io.Writer) error {
	for _, name := range function.Names() {
		f, err := function.New(nil, name, -1)
		if err != nil {
			return err
		}
		var b strings.Builder
		if aliases := f.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, "aliases: %s\n", strings.Join(aliases, ", "))
		}
		fmt.Fprintf(&b, "signature: %s\n", f.Signature())
		b.WriteString(text.Wrap(f.Doc().Summary, 72))
		if _, err := fmt.Fprintf(w, "%s\n%s\n", function.Usage(f), text.Indent(b.String(), "    ")); err != nil {
			return err
		}
	}
	return nil
}
