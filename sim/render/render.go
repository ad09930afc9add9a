// Package render draws W×S images (rows are wavelengths, columns are sensors)
// as PNG plots and interactive HTML pages.
package render

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default PNG size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// heatColors is the number of palette steps in a heatmap.
const heatColors = 64

// imageGrid adapts an image to plotter.GridXYZ: X is the sensor index, Y the wavelength.
type imageGrid struct {
	wavelengths []float64
	img         mat.Matrix
}

func (g imageGrid) Dims() (c, r int) {
	r, c = g.img.Dims()
	return c, r
}

func (g imageGrid) Z(c, r int) float64 { return g.img.At(r, c) }
func (g imageGrid) X(c int) float64    { return float64(c) }
func (g imageGrid) Y(r int) float64    { return g.wavelengths[r] }

func checkImage(wavelengths []float64, img mat.Matrix) error {
	r, c := img.Dims()
	if r != len(wavelengths) {
		return fmt.Errorf("render: image has %d rows for %d wavelengths", r, len(wavelengths))
	}
	if r < 2 || c < 2 {
		return fmt.Errorf("render: image must be at least 2×2, got %d×%d", r, c)
	}
	return nil
}

// HeatmapPlot draws img as a wavelength × sensor heatmap.
func HeatmapPlot(title string, wavelengths []float64, img mat.Matrix) (*plot.Plot, error) {
	if err := checkImage(wavelengths, img); err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Sensor"
	p.Y.Label.Text = "Wavelength"

	hm := plotter.NewHeatMap(imageGrid{wavelengths: wavelengths, img: img}, palette.Heat(heatColors, 1))
	p.Add(hm)
	return p, nil
}

// SpectraPlot draws one intensity-vs-wavelength line per selected sensor.
func SpectraPlot(title string, wavelengths []float64, img mat.Matrix, sensors []int) (*plot.Plot, error) {
	if err := checkImage(wavelengths, img); err != nil {
		return nil, err
	}
	_, numSensors := img.Dims()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Wavelength"
	p.Y.Label.Text = "Intensity"

	for i, s := range sensors {
		if s < 0 || s >= numSensors {
			return nil, fmt.Errorf("render: sensor %d out of range [0, %d)", s, numSensors)
		}
		pts := make(plotter.XYs, len(wavelengths))
		for w, lambda := range wavelengths {
			pts[w] = plotter.XY{X: lambda, Y: img.At(w, s)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("render: sensor %d: %w", s, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("sensor %d", s), line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePNG encodes p as a PNG of the default size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}

// SavePNG writes p to path as a PNG of the default size.
func SavePNG(path string, p *plot.Plot) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
