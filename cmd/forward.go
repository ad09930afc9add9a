package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/dataset"
)

var (
	forwardSrc datasetSource
	forwardOut string
)

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Evaluate the noise-free image of a dataset's true parameters",
	Long:  "Writes the W×S expected image as a JSON array {\"shape\": [W, S], \"data\": [...]} on the dataset's wavelength grid.",
	Run: func(cmd *cobra.Command, args []string) {
		d, err := forwardSrc.load(cmd.Context(), dbPath)
		if err != nil {
			logrus.Fatalf("Failed to load dataset: %v", err)
		}
		cfg := mustLoadConfig()
		err = writeOutput(forwardOut, func(w io.Writer) error { return runForward(w, cfg, d) })
		if err != nil {
			logrus.Fatalf("Forward model failed: %v", err)
		}
	},
}

// expectedImage evaluates cfg's model on d's grid at d's true parameters.
func expectedImage(cfg *dataset.Config, d *dataset.Dataset) (*mat.Dense, error) {
	modelCfg := cfg.Model
	modelCfg.Wavelengths = sim.GridConfig{Values: d.Wavelengths.Values()}
	model, err := sim.NewForwardModel(modelCfg)
	if err != nil {
		return nil, err
	}
	return model.Expected(d.Params)
}

func runForward(w io.Writer, cfg *dataset.Config, d *dataset.Dataset) error {
	img, err := expectedImage(cfg, d)
	if err != nil {
		return err
	}
	r, c := img.Dims()
	logrus.Infof("Expected image %d×%d for dataset %s, max=%.4f", r, c, d.ID, mat.Max(img))

	enc := json.NewEncoder(w)
	if err := enc.Encode(dataset.Array{Shape: []int{r, c}, Data: img.RawMatrix().Data}); err != nil {
		return fmt.Errorf("encoding expected image: %w", err)
	}
	return nil
}

func init() {
	addSourceFlags(forwardCmd, &forwardSrc)
	forwardCmd.Flags().StringVar(&forwardOut, "out", "-", "Output JSON path (- for stdout)")

	rootCmd.AddCommand(forwardCmd)
}
