package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/smtlib"
	"github.com/vhavlena/abc-go/symtab"
)

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [script.smt2]",
		Short: "Parse a script and print each assertion's term tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			st := symtab.New()
			script, err := smtlib.Parse(string(src), st)
			if err != nil {
				return err
			}
			for i, a := range script.Asserts {
				fmt.Printf("assertion %d:\n", i)
				dumpTerm(a.Term, 1)
			}
			return nil
		},
	}
}

func dumpTerm(t smt.Term, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(os.Stdout, "%s- %s (%s)\n", indent, t.String(), t.Kind())
	for _, c := range t.Children() {
		dumpTerm(c, depth+1)
	}
}
