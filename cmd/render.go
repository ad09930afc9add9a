package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/plasma-sim/sim/dataset"
	"github.com/inference-sim/plasma-sim/sim/render"
)

var (
	renderSrc     datasetSource
	renderOut     string
	renderImage   string
	renderSensors []int
)

// Images a render can show.
const (
	imageMeasurements = "measurements"
	imageExpected     = "expected"
	imageResidual     = "residual"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Plot a dataset as PNG or HTML",
	Long: "The output format follows the --out extension. PNG draws one image (--image) as a heatmap, " +
		"or as per-sensor spectra when --sensors is set. HTML draws measurements, expected and residual images on one page.",
	Run: func(cmd *cobra.Command, args []string) {
		d, err := renderSrc.load(cmd.Context(), dbPath)
		if err != nil {
			logrus.Fatalf("Failed to load dataset: %v", err)
		}
		if err := runRender(renderOut, mustLoadConfig(), d, renderImage, renderSensors); err != nil {
			logrus.Fatalf("Render failed: %v", err)
		}
		logrus.Infof("Wrote %s", renderOut)
	},
}

// renderPanels returns every image of d in page order.
func renderPanels(cfg *dataset.Config, d *dataset.Dataset) ([]render.Panel, error) {
	expected, err := expectedImage(cfg, d)
	if err != nil {
		return nil, err
	}
	var residual mat.Dense
	residual.Sub(d.Measurements, expected)
	return []render.Panel{
		{Name: imageMeasurements, Image: d.Measurements},
		{Name: imageExpected, Image: expected},
		{Name: imageResidual, Image: &residual},
	}, nil
}

func runRender(path string, cfg *dataset.Config, d *dataset.Dataset, image string, sensors []int) error {
	panels, err := renderPanels(cfg, d)
	if err != nil {
		return err
	}
	wavelengths := d.Wavelengths.Values()
	title := fmt.Sprintf("dataset %s (seed %s)", d.ID, d.Seed)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return writeOutput(path, func(w io.Writer) error {
			return render.WriteHTML(w, title, wavelengths, panels)
		})

	case ".png":
		var panel *render.Panel
		for i := range panels {
			if panels[i].Name == image {
				panel = &panels[i]
			}
		}
		if panel == nil {
			return fmt.Errorf("unknown image %q; valid: measurements, expected, residual", image)
		}
		plotTitle := fmt.Sprintf("%s: %s", title, panel.Name)
		if len(sensors) > 0 {
			p, err := render.SpectraPlot(plotTitle, wavelengths, panel.Image, sensors)
			if err != nil {
				return err
			}
			return render.SavePNG(path, p)
		}
		p, err := render.HeatmapPlot(plotTitle, wavelengths, panel.Image)
		if err != nil {
			return err
		}
		return render.SavePNG(path, p)

	default:
		return fmt.Errorf("unsupported output %q; use a .png or .html path", path)
	}
}

func init() {
	addSourceFlags(renderCmd, &renderSrc)
	renderCmd.Flags().StringVar(&renderOut, "out", "dataset.html", "Output path (.png or .html)")
	renderCmd.Flags().StringVar(&renderImage, "image", imageMeasurements, "Image to draw in PNG mode (measurements, expected, residual)")
	renderCmd.Flags().IntSliceVar(&renderSensors, "sensors", nil, "Sensors to draw as spectra in PNG mode (default: heatmap)")

	rootCmd.AddCommand(renderCmd)
}
