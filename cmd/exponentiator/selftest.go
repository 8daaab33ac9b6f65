package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Invicton-Labs/go-exponent/evaluator"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJson = "json"
	formatYaml = "yaml"
)

type selftestReport struct {
	Results []evaluator.Evaluation   `json:"results" yaml:"results"`
	Stats   evaluator.Stats          `json:"stats" yaml:"stats"`
	Metrics []evaluator.MetricSample `json:"metrics" yaml:"metrics"`
}

func newSelftestCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Evaluate every pairing of a fixed set of sample values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatJson, formatYaml:
			default:
				return stackerr.Errorf("Unknown output format %q (expected %s, %s or %s)", format, formatText, formatJson, formatYaml)
			}

			results, err := opts.evaluator.SelfTest(cmd.Context())
			if err != nil {
				log.Error(err)
				return err
			}
			samples, merr := opts.evaluator.Metrics()
			if merr != nil {
				return merr
			}
			return writeReport(cmd.OutOrStdout(), format, selftestReport{
				Results: results,
				Stats:   opts.evaluator.Stats(),
				Metrics: samples,
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json or yaml")
	return cmd
}

func writeReport(w io.Writer, format string, report selftestReport) error {
	switch format {
	case formatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return stackerr.Wrap(err)
		}
	case formatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return stackerr.Wrap(err)
		}
		if err := enc.Close(); err != nil {
			return stackerr.Wrap(err)
		}
	default:
		fmt.Fprintln(w, "Testing small values")
		for _, r := range report.Results {
			fmt.Fprintln(w, evaluator.FormatEvaluation(r))
		}
	}
	return nil
}
