package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
)

// Panel is one image on an HTML page.
type Panel struct {
	Name  string
	Image mat.Matrix
}

// viridis color stops for the visual map.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteHTML renders every panel as a colored scatter heatmap on one page.
func WriteHTML(w io.Writer, title string, wavelengths []float64, panels []Panel) error {
	if len(panels) == 0 {
		return fmt.Errorf("render: no panels")
	}
	page := components.NewPage()
	page.PageTitle = title

	for _, panel := range panels {
		scatter, err := heatmapScatter(panel, wavelengths)
		if err != nil {
			return err
		}
		page.AddCharts(scatter)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render: html: %w", err)
	}
	return nil
}

func heatmapScatter(panel Panel, wavelengths []float64) (*charts.Scatter, error) {
	if err := checkImage(wavelengths, panel.Image); err != nil {
		return nil, fmt.Errorf("%s: %w", panel.Name, err)
	}
	r, c := panel.Image.Dims()

	data := make([]opts.ScatterData, 0, r*c)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := panel.Image.At(i, j)
			lo, hi = math.Min(lo, v), math.Max(hi, v)
			data = append(data, opts.ScatterData{Value: []interface{}{j, wavelengths[i], v}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: panel.Name, Subtitle: fmt.Sprintf("%d wavelengths × %d sensors", r, c)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: c - 1, Name: "Sensor", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: wavelengths[0], Max: wavelengths[r-1], Name: "Wavelength", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries(panel.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	return scatter, nil
}
