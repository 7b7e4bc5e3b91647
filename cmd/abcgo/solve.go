package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vhavlena/abc-go/smtlib"
	"github.com/vhavlena/abc-go/solver"
	"github.com/vhavlena/abc-go/symtab"
)

func newSolveCmd() *cobra.Command {
	var (
		lia        bool
		relational bool
		naturals   bool
		countModel bool
		iterations int
	)
	cmd := &cobra.Command{
		Use:   "solve [script.smt2]",
		Short: "Evaluate a script's assertions and report satisfiability",
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
			cfg := solver.Config{
				LIAEngineEnabled:               lia,
				EnableRelationalStringAutomata: relational,
				LIANaturalNumbersOnly:          naturals,
				ModelCounterEnabled:            countModel,
			}
			ev := solver.New(st, cfg)
			sat, err := ev.StartIterations(script.Asserts, iterations)
			if err != nil {
				return err
			}
			if sat {
				fmt.Println("sat")
			} else {
				fmt.Println("unsat")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&lia, "lia", true, "enable the linear-integer-arithmetic engine")
	cmd.Flags().BoolVar(&relational, "relational-strings", true, "enable the relational string automata engine")
	cmd.Flags().BoolVar(&naturals, "naturals-only", false, "restrict the arithmetic engine to non-negative integers")
	cmd.Flags().BoolVar(&countModel, "count-models", false, "keep walking every Or branch instead of short-circuiting")
	cmd.Flags().IntVar(&iterations, "iterations", 1, "maximum number of evaluation passes over the script")
	return cmd
}
