package reporter

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

func logOf(stars int) float64 {
	return math.Log(float64(stars))
}

// kdePoint is one evaluation of a kernel density estimate.
type kdePoint struct {
	X, Density float64
}

// gaussianKDE evaluates a gaussian kernel density estimate of samples on a
// regular grid spanning the sample range. Bandwidth follows Silverman's rule
// of thumb.
func gaussianKDE(samples []float64, points int) []kdePoint {
	if len(samples) == 0 || points < 2 {
		return nil
	}

	min, max := samples[0], samples[0]
	for _, s := range samples {
		min = math.Min(min, s)
		max = math.Max(max, s)
	}

	n := float64(len(samples))
	sd := stat.StdDev(samples, nil)
	if sd == 0 || math.IsNaN(sd) {
		sd = 1
	}
	bandwidth := 1.06 * sd * math.Pow(n, -0.2)

	grid := make([]kdePoint, points)
	step := (max - min) / float64(points-1)
	norm := 1 / (n * bandwidth * math.Sqrt(2*math.Pi))
	for i := range grid {
		x := min + float64(i)*step
		var sum float64
		for _, s := range samples {
			z := (x - s) / bandwidth
			sum += math.Exp(-0.5 * z * z)
		}
		grid[i] = kdePoint{X: x, Density: norm * sum}
	}
	return grid
}
