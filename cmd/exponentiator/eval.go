package main

import (
	"fmt"
	"strconv"

	"github.com/Invicton-Labs/go-exponent/evaluator"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/spf13/cobra"
)

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <base> <exponent>",
		Short: "Raise a base to an exponent",
		Example: `  exponentiator eval 3 -- -7
  exponentiator eval -- -2147483647 0.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseNumber("base", args[0])
			if err != nil {
				return err
			}
			exp, err := parseNumber("exponent", args[1])
			if err != nil {
				return err
			}
			ev, err := opts.evaluator.Evaluate(cmd.Context(), base, exp)
			if err != nil {
				log.Error(err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), evaluator.FormatEvaluation(ev))
			return nil
		},
	}
}

func parseNumber(name string, s string) (float64, stackerr.Error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, stackerr.Errorf("Invalid %s %q: not a number", name, s).With(map[string]any{
			"input": s,
		})
	}
	return f, nil
}
