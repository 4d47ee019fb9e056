package reporter

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github-trends/internal/model"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var barWidth = vg.Points(12)

// topReposChart renders the top-n repositories ranked by star count as a
// horizontal bar chart, highest first.
func topReposChart(repos []model.Repository, n int, path string) error {
	ranked := TopReposByStars(repos, n)

	// Horizontal bars plot bottom-up, so reverse to put the highest on top.
	values := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, r := range ranked {
		j := len(ranked) - 1 - i
		values[j] = float64(r.Stars)
		names[j] = r.Name
	}

	p := plot.New()
	p.Title.Text = "Highest star count"
	p.X.Label.Text = "Number of stars"

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalY(names...)

	return p.Save(chartWidth, chartHeight, path)
}

// languageStarsChart renders total stars per language, one bar group per
// subject over the shared language axis.
func languageStarsChart(languages []string, bySubject map[string][]LanguageBucket, path string) error {
	p := plot.New()
	p.Title.Text = "Most starred programming languages"
	p.Y.Label.Text = "Total stars"
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = draw.XLeft
	p.Legend.Top = true

	for i, subject := range sortedKeys(bySubject) {
		values := make(plotter.Values, len(languages))
		for j, b := range bySubject[subject] {
			values[j] = float64(b.Stars)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(i) * barWidth
		p.Add(bars)
		p.Legend.Add(subject, bars)
	}
	p.NominalX(languages...)

	return p.Save(chartWidth, chartHeight, path)
}

// starDistributionChart renders a kernel density estimate of ln(stars) per
// subject.
func starDistributionChart(samples map[string][]float64, path string) error {
	p := plot.New()
	p.Title.Text = "Star count distribution"
	p.X.Label.Text = "Stars (ln)"
	p.Y.Label.Text = "Density"
	p.Legend.Top = true

	for i, subject := range sortedKeys(samples) {
		grid := gaussianKDE(samples[subject], 200)
		xys := make(plotter.XYs, len(grid))
		for j, pt := range grid {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Density}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(subject, line)
	}

	return p.Save(chartWidth, chartHeight, path)
}

// yearlyReposChart renders repositories created per calendar year, with one
// bar group per subject.
func yearlyReposChart(counts map[string][]YearCount, path string) error {
	years := yearRange(counts)

	p := plot.New()
	p.Title.Text = "Repositories created"
	p.Y.Label.Text = "Total repositories created"
	p.Legend.Top = true

	subjects := sortedKeys(counts)
	for i, subject := range subjects {
		byYear := make(map[int]int, len(counts[subject]))
		for _, yc := range counts[subject] {
			byYear[yc.Year] = yc.Count
		}
		values := make(plotter.Values, len(years))
		for j, year := range years {
			values[j] = float64(byYear[year])
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(i) * barWidth
		p.Add(bars)
		p.Legend.Add(subject, bars)
	}

	names := make([]string, len(years))
	for i, year := range years {
		names[i] = fmt.Sprint(year)
	}
	p.NominalX(names...)

	return p.Save(chartWidth, chartHeight, path)
}

// yearlyMedianStarsChart renders the median star count by creation year as
// one line per subject.
func yearlyMedianStarsChart(medians map[string][]YearValue, path string) error {
	p := plot.New()
	p.Title.Text = "Median star count per repository"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Median star count"
	p.Legend.Top = true

	for i, subject := range sortedKeys(medians) {
		xys := make(plotter.XYs, len(medians[subject]))
		for j, yv := range medians[subject] {
			xys[j] = plotter.XY{X: float64(yv.Year), Y: yv.Value}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(subject, line)
	}

	return p.Save(chartWidth, chartHeight, path)
}

// yearlyTopicsChart renders the topic×year cross-tabulation as squares sized
// by frequency.
func yearlyTopicsChart(cells []TopicYearCount, path string) error {
	var topics []string
	index := make(map[string]int)
	maxCount := 1
	for _, c := range cells {
		if _, ok := index[c.Topic]; !ok {
			index[c.Topic] = len(topics)
			topics = append(topics, c.Topic)
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	xys := make(plotter.XYs, len(cells))
	for i, c := range cells {
		xys[i] = plotter.XY{X: float64(c.Year), Y: float64(index[c.Topic])}
	}

	p := plot.New()
	p.Title.Text = "Popular topics"
	p.X.Label.Text = "Year"

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		scale := float64(cells[i].Count) / float64(maxCount)
		return draw.GlyphStyle{
			Color:  plotutil.Color(2),
			Radius: vg.Points(2 + 8*scale),
			Shape:  draw.BoxGlyph{},
		}
	}
	p.Add(scatter)
	p.NominalY(topics...)

	return p.Save(chartWidth, chartHeight, path)
}

// mostFollowedUsersChart renders the most followed individual users.
func mostFollowedUsersChart(users []model.User, n int, path string) error {
	ranked := MostFollowedUsers(users, n)

	values := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, u := range ranked {
		j := len(ranked) - 1 - i
		values[j] = float64(u.Followers)
		names[j] = u.Username
	}

	p := plot.New()
	p.Title.Text = "Most followed users"
	p.X.Label.Text = "Followers"

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(3)
	p.Add(bars)
	p.NominalY(names...)

	return p.Save(chartWidth, chartHeight, path)
}

// orgStarsChart renders organizations ranked by the summed star count of
// their repositories.
func orgStarsChart(totals []OwnerStars, n int, path string) error {
	if len(totals) > n {
		totals = totals[:n]
	}

	values := make(plotter.Values, len(totals))
	names := make([]string, len(totals))
	for i, t := range totals {
		j := len(totals) - 1 - i
		values[j] = float64(t.Stars)
		names[j] = t.Username
	}

	p := plot.New()
	p.Title.Text = "Organizations ranked by total stars"
	p.X.Label.Text = "Total stars"

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(4)
	p.Add(bars)
	p.NominalY(names...)

	return p.Save(chartWidth, chartHeight, path)
}

// orgLanguagesChart renders the most used languages across organization
// repositories.
func orgLanguagesChart(buckets []LanguageBucket, path string) error {
	values := make(plotter.Values, len(buckets))
	names := make([]string, len(buckets))
	for i, b := range buckets {
		j := len(buckets) - 1 - i
		values[j] = float64(b.Repos)
		names[j] = b.Language
	}

	p := plot.New()
	p.Title.Text = "Most used programming languages"
	p.X.Label.Text = "Repositories that implement it"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(5)
	p.Add(bars)
	p.NominalY(names...)

	return p.Save(chartWidth, chartHeight, path)
}

// orgLanguageYearsChart renders yearly usage of the top organization
// languages as one line per language.
func orgLanguageYearsChart(series map[string][]YearCount, path string) error {
	p := plot.New()
	p.Title.Text = "Language use by year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Repositories using the language"
	p.Legend.Top = true

	for i, lang := range sortedKeys(series) {
		xys := make(plotter.XYs, len(series[lang]))
		for j, yc := range series[lang] {
			xys[j] = plotter.XY{X: float64(yc.Year), Y: float64(yc.Count)}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(lang, line)
	}

	return p.Save(chartWidth, chartHeight, path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func yearRange(counts map[string][]YearCount) []int {
	seen := make(map[int]bool)
	var years []int
	for _, series := range counts {
		for _, yc := range series {
			if !seen[yc.Year] {
				seen[yc.Year] = true
				years = append(years, yc.Year)
			}
		}
	}
	sort.Ints(years)
	return years
}
