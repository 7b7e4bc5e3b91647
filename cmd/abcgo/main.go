// Command abcgo is the CLI entry point for the evaluator, mirroring the role
// examples/solve and examples/ast play for the teacher's Z3 binding: a
// small front-end over the library, not a library of its own. Flag parsing
// goes through cobra/pflag rather than the standard library's flag package,
// following the rest of the retrieval pack's CLI convention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "abcgo",
		Short: "A tree-directed string/integer/Boolean constraint evaluator",
	}
	root.AddCommand(newSolveCmd())
	root.AddCommand(newASTCmd())
	return root
}
