package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/plasma-sim/sim/dataset"
)

var logprobSrc datasetSource

var logprobCmd = &cobra.Command{
	Use:   "logprob",
	Short: "Evaluate the unnormalized log posterior at a dataset's true parameters",
	Run: func(cmd *cobra.Command, args []string) {
		d, err := logprobSrc.load(cmd.Context(), dbPath)
		if err != nil {
			logrus.Fatalf("Failed to load dataset: %v", err)
		}
		if err := runLogProb(cmd.OutOrStdout(), mustLoadConfig(), d); err != nil {
			logrus.Fatalf("Log density failed: %v", err)
		}
	},
}

func runLogProb(w io.Writer, cfg *dataset.Config, d *dataset.Dataset) error {
	target, err := dataset.NewTarget(*cfg, d)
	if err != nil {
		return err
	}
	ll, err := target.LogLikelihood(d.Params)
	if err != nil {
		return err
	}
	lp := target.LogPrior(d.Params)
	_, err = fmt.Fprintf(w, "dataset:        %s\nlog prior:      %.6f\nlog likelihood: %.6f\nlog joint:      %.6f\n",
		d.ID, lp, ll, lp+ll)
	return err
}

func init() {
	addSourceFlags(logprobCmd, &logprobSrc)

	rootCmd.AddCommand(logprobCmd)
}
