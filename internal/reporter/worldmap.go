package reporter

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	mapWidth  = 1200
	mapHeight = 800
)

var continentColors = map[string]color.Color{
	"Africa":        color.RGBA{R: 0xe4, G: 0x57, B: 0x56, A: 0xff},
	"Asia":          color.RGBA{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	"Europe":        color.RGBA{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	"North America": color.RGBA{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	"Oceania":       color.RGBA{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
	"South America": color.RGBA{R: 0xed, G: 0xc9, B: 0x48, A: 0xff},
}

var unknownContinentColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}

// userMapChart renders the world-boundary dataset and one circle per country
// at the mean user coordinate, sized by user count and colored by continent.
func userMapChart(boundaryFile string, points []CountryPoint, path string) error {
	data, err := os.ReadFile(boundaryFile)
	if err != nil {
		return fmt.Errorf("reading world boundaries: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return fmt.Errorf("parsing world boundaries: %w", err)
	}

	dc := gg.NewContext(mapWidth, mapHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, feature := range fc.Features {
		drawGeometry(dc, feature.Geometry)
	}

	maxCount := 1
	for _, pt := range points {
		if pt.Count > maxCount {
			maxCount = pt.Count
		}
	}
	for _, pt := range points {
		x, y := project(pt.Longitude, pt.Latitude)
		radius := 4 + 20*math.Sqrt(float64(pt.Count)/float64(maxCount))

		c, ok := continentColors[pt.Continent]
		if !ok {
			c = unknownContinentColor
		}
		r, g, b, _ := c.RGBA()
		dc.SetRGBA(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, 0.75)
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}

	return dc.SavePNG(path)
}

func drawGeometry(dc *gg.Context, geometry orb.Geometry) {
	switch g := geometry.(type) {
	case orb.Polygon:
		drawPolygon(dc, g)
	case orb.MultiPolygon:
		for _, polygon := range g {
			drawPolygon(dc, polygon)
		}
	}
}

func drawPolygon(dc *gg.Context, polygon orb.Polygon) {
	for _, ring := range polygon {
		dc.NewSubPath()
		for i, pt := range ring {
			x, y := project(pt.Lon(), pt.Lat())
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
	}
	dc.SetRGB(0.93, 0.93, 0.93)
	dc.FillPreserve()
	dc.SetRGB(0.55, 0.55, 0.55)
	dc.SetLineWidth(0.5)
	dc.Stroke()
}

// project maps a lon/lat coordinate onto the canvas with an equirectangular
// projection.
func project(lon, lat float64) (x, y float64) {
	x = (lon + 180) / 360 * mapWidth
	y = (90 - lat) / 180 * mapHeight
	return x, y
}
