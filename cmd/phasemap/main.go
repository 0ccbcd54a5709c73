// Command phasemap renders a Henyey-Greenstein phase function as a heatmap
// over the scattering angles, together with a zenith profile. It exercises
// the full representation chain: the analytic function is sampled on a
// spherical-harmonic quadrature grid, optionally smoothed by a round trip
// through a truncated spectral representation, normalized, and plotted.
package main

import (
	"flag"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/simonpf/scatlib/scattering"
	"github.com/simonpf/scatlib/sht"
	"github.com/simonpf/scatlib/tensor"
)

func main() {
	nLon := flag.Int("scat-lon", 64, "scattering azimuth grid size")
	nLat := flag.Int("scat-lat", 32, "scattering zenith grid size")
	asym := flag.Float64("asymmetry", 0.7, "Henyey-Greenstein asymmetry parameter in (-1, 1)")
	lMax := flag.Int("l-max", -1, "spectral truncation for smoothing; -1 keeps the grid maximum")
	outDir := flag.String("out", "plots", "output directory for PNG files")
	flag.Parse()

	if *asym <= -1 || *asym >= 1 {
		log.Fatalf("asymmetry parameter %g outside (-1, 1)", *asym)
	}

	field, err := buildPhaseFunction(*asym, *nLon, *nLat)
	if err != nil {
		log.Fatalf("build phase function: %v", err)
	}

	if *lMax >= 0 {
		field, err = smooth(field, *lMax)
		if err != nil {
			log.Fatalf("spectral smoothing: %v", err)
		}
	}

	// Scale to a unit scattering-sphere integral like a phase function.
	field.Normalize(1)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	heatFile := filepath.Join(*outDir, "phase_heatmap.png")
	if err := writeHeatmap(field, heatFile); err != nil {
		log.Fatalf("write heatmap: %v", err)
	}
	profileFile := filepath.Join(*outDir, "phase_profile.png")
	if err := writeProfile(field, profileFile); err != nil {
		log.Fatalf("write profile: %v", err)
	}
	log.Printf("wrote %s and %s", heatFile, profileFile)
}

// henyeyGreenstein evaluates the phase function for scattering angle theta,
// normalized to a unit integral over the sphere.
func henyeyGreenstein(g, theta float64) float64 {
	c := math.Cos(theta)
	return (1 - g*g) / (4 * math.Pi * math.Pow(1+g*g-2*g*c, 1.5))
}

// buildPhaseFunction samples the phase function on the quadrature grid of
// the maximal transform for the requested resolution. The incoming
// direction is fixed, so the result is a randomly oriented dataset.
func buildPhaseFunction(g float64, nLon, nLat int) (*scattering.Gridded, error) {
	lMax, mMax, _, _ := sht.Params(nLon, nLat)
	t, err := sht.New(lMax, mMax, nLon, nLat)
	if err != nil {
		return nil, err
	}

	data := tensor.New[float64](1, 1, 1, 1, nLon, nLat, 1)
	for j, theta := range t.LatitudeGrid() {
		p := henyeyGreenstein(g, theta)
		for k := 0; k < nLon; k++ {
			data.Set(p, 0, 0, 0, 0, k, j, 0)
		}
	}
	return scattering.NewGridded([]float64{0}, []float64{0}, []float64{0}, []float64{0},
		t.LongitudeGrid(), t.LatitudeGrid(), data)
}

// smooth runs the field through a truncated spectral representation and
// back, discarding structure above the requested degree.
func smooth(field *scattering.Gridded, lMax int) (*scattering.Gridded, error) {
	full, err := field.ToSpectralMax()
	if err != nil {
		return nil, err
	}
	mMax := full.SHT().MMax()
	if mMax > lMax {
		mMax = lMax
	}
	truncated, err := sht.New(lMax, mMax, field.NumLonScat(), field.NumLatScat())
	if err != nil {
		return nil, err
	}
	return full.ToSpectral(truncated).ToGridded(), nil
}

// phaseGrid adapts a scattering-angle slice to the heatmap data interface:
// columns are azimuth, rows zenith.
type phaseGrid struct {
	field *scattering.Gridded
}

func (p phaseGrid) Dims() (int, int) { return p.field.NumLonScat(), p.field.NumLatScat() }

func (p phaseGrid) Z(c, r int) float64 {
	return p.field.Data().At(0, 0, 0, 0, c, r, 0)
}

func (p phaseGrid) X(c int) float64 { return p.field.LonScatGrid()[c] }

func (p phaseGrid) Y(r int) float64 { return p.field.LatScatGrid()[r] }

func writeHeatmap(field *scattering.Gridded, path string) error {
	pl := plot.New()
	pl.Title.Text = "Phase function"
	pl.X.Label.Text = "Scattering azimuth (rad)"
	pl.Y.Label.Text = "Scattering zenith (rad)"

	hm := plotter.NewHeatMap(phaseGrid{field: field}, moreland.SmoothBlueRed().Palette(255))
	pl.Add(hm)

	return pl.Save(8*vg.Inch, 6*vg.Inch, path)
}

func writeProfile(field *scattering.Gridded, path string) error {
	pl := plot.New()
	pl.Title.Text = "Phase function zenith profile"
	pl.X.Label.Text = "Scattering zenith (rad)"
	pl.Y.Label.Text = "p"

	lat := field.LatScatGrid()
	pts := make(plotter.XYs, 0, len(lat))
	for j, theta := range lat {
		pts = append(pts, plotter.XY{X: theta, Y: field.Data().At(0, 0, 0, 0, 0, j, 0)})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)
	pl.Legend.Add("azimuth 0", line)
	pl.Legend.Top = true

	return pl.Save(8*vg.Inch, 6*vg.Inch, path)
}
