package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Invicton-Labs/go-exponent/evaluator"
	"github.com/spf13/cobra"
)

func newInteractiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for bases and exponents until told to stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts.evaluator)
		},
	}
}

func runInteractive(cmd *cobra.Command, e *evaluator.Evaluator) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintln(out, "Welcome to the exponent calculator")
	for {
		base, ok := promptNumber(scanner, out, "Enter the base: ", "base")
		if !ok {
			break
		}
		exp, ok := promptNumber(scanner, out, "Enter the exponent: ", "exponent")
		if !ok {
			break
		}

		ev, err := e.Evaluate(cmd.Context(), base, exp)
		if err != nil {
			fmt.Fprintf(out, "Could not evaluate: %v\n", err)
		} else {
			fmt.Fprintln(out, evaluator.FormatEvaluation(ev))
		}

		fmt.Fprint(out, "Again? (y/n): ")
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			break
		}
	}
	fmt.Fprintln(out, "Thank you for choosing my calculator.")
	return scanner.Err()
}

// promptNumber asks until it reads a valid number. It returns false
// once the input is exhausted.
func promptNumber(scanner *bufio.Scanner, out io.Writer, prompt string, name string) (float64, bool) {
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return 0, false
		}
		v, err := parseNumber(name, strings.TrimSpace(scanner.Text()))
		if err == nil {
			return v, true
		}
		fmt.Fprintln(out, err.Error())
	}
}
