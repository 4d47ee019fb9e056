package reporter

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github-trends/internal/model"
)

const (
	noLanguage  = "No language"
	otherBucket = "Other"
)

// TopReposByStars returns the n highest-starred repositories in descending
// star order. The sort is stable, so equal star counts keep input order.
func TopReposByStars(repos []model.Repository, n int) []model.Repository {
	ranked := make([]model.Repository, len(repos))
	copy(ranked, repos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stars > ranked[j].Stars
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// LanguageBucket is one category of the language frequency chart.
type LanguageBucket struct {
	Language string
	Repos    int
	Stars    int
}

// LanguageBuckets aggregates repositories onto a shared language axis: the
// topN most frequent languages overall plus a single trailing Other bucket,
// with counts and star totals partitioned by subject so the chart can facet
// per query. The axis orders named languages by total stars. A null language
// becomes "No language"; the platform's MATLAB casing is normalized.
func LanguageBuckets(repos []model.Repository, topN int) ([]string, map[string][]LanguageBucket) {
	counts := make(map[string]int)
	stars := make(map[string]int)
	var order []string
	for _, r := range repos {
		lang := languageOf(r)
		if _, ok := counts[lang]; !ok {
			order = append(order, lang)
		}
		counts[lang]++
		stars[lang] += r.Stars
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	named := order
	if len(named) > topN {
		named = named[:topN]
	}
	top := make(map[string]bool, len(named))
	for _, lang := range named {
		top[lang] = true
	}
	sort.SliceStable(named, func(i, j int) bool {
		return stars[named[i]] > stars[named[j]]
	})

	axis := named
	if len(order) > topN {
		axis = append(axis, otherBucket)
	}
	index := make(map[string]int, len(axis))
	for i, lang := range axis {
		index[lang] = i
	}

	bySubject := make(map[string][]LanguageBucket)
	for _, r := range repos {
		lang := languageOf(r)
		if !top[lang] {
			lang = otherBucket
		}
		buckets, ok := bySubject[r.Subject]
		if !ok {
			buckets = make([]LanguageBucket, len(axis))
			for i, l := range axis {
				buckets[i].Language = l
			}
			bySubject[r.Subject] = buckets
		}
		b := &buckets[index[lang]]
		b.Repos++
		b.Stars += r.Stars
	}
	return axis, bySubject
}

func languageOf(r model.Repository) string {
	if !r.Language.Valid {
		return noLanguage
	}
	if r.Language.String == "MATLAB" {
		return "Matlab"
	}
	return r.Language.String
}

// LogStarSamples groups ln(stars) by subject for the density chart.
// Zero-star repositories are excluded since ln(0) is undefined.
func LogStarSamples(repos []model.Repository) map[string][]float64 {
	samples := make(map[string][]float64)
	for _, r := range repos {
		if r.Stars <= 0 {
			continue
		}
		samples[r.Subject] = append(samples[r.Subject], logOf(r.Stars))
	}
	return samples
}

// YearCount is one (year, count) cell of a yearly aggregation.
type YearCount struct {
	Year  int
	Count int
}

// YearlyRepoCounts buckets repository creation timestamps by calendar year,
// per subject, in ascending year order.
func YearlyRepoCounts(repos []model.Repository) map[string][]YearCount {
	counts := make(map[string]map[int]int)
	for _, r := range repos {
		if r.Created.IsZero() {
			continue
		}
		year := r.Created.Year()
		if counts[r.Subject] == nil {
			counts[r.Subject] = make(map[int]int)
		}
		counts[r.Subject][year]++
	}

	out := make(map[string][]YearCount, len(counts))
	for subject, byYear := range counts {
		out[subject] = sortYearCounts(byYear)
	}
	return out
}

// YearValue is one (year, value) point of a yearly series.
type YearValue struct {
	Year  int
	Value float64
}

// YearlyMedianStars computes the median star count of repositories created in
// each calendar year, per subject.
func YearlyMedianStars(repos []model.Repository) map[string][]YearValue {
	stars := make(map[string]map[int][]float64)
	for _, r := range repos {
		if r.Created.IsZero() {
			continue
		}
		year := r.Created.Year()
		if stars[r.Subject] == nil {
			stars[r.Subject] = make(map[int][]float64)
		}
		stars[r.Subject][year] = append(stars[r.Subject][year], float64(r.Stars))
	}

	out := make(map[string][]YearValue, len(stars))
	for subject, byYear := range stars {
		series := make([]YearValue, 0, len(byYear))
		for year, values := range byYear {
			sort.Float64s(values)
			series = append(series, YearValue{
				Year:  year,
				Value: stat.Quantile(0.5, stat.Empirical, values, nil),
			})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
		out[subject] = series
	}
	return out
}

// TopicYearCount is one cell of the topic×year cross-tabulation.
type TopicYearCount struct {
	Topic string
	Year  int
	Count int
}

// TopTopicsByYear explodes topic lists and cross-tabulates the topN most
// frequent topics against creation year.
func TopTopicsByYear(repos []model.Repository, topN int) []TopicYearCount {
	freq := make(map[string]int)
	var order []string
	for _, r := range repos {
		for _, topic := range r.Topics {
			if _, ok := freq[topic]; !ok {
				order = append(order, topic)
			}
			freq[topic]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if len(order) > topN {
		order = order[:topN]
	}
	top := make(map[string]bool, len(order))
	for _, topic := range order {
		top[topic] = true
	}

	cells := make(map[string]map[int]int)
	for _, r := range repos {
		if r.Created.IsZero() {
			continue
		}
		year := r.Created.Year()
		for _, topic := range r.Topics {
			if !top[topic] {
				continue
			}
			if cells[topic] == nil {
				cells[topic] = make(map[int]int)
			}
			cells[topic][year]++
		}
	}

	var out []TopicYearCount
	for _, topic := range order {
		for _, yc := range sortYearCounts(cells[topic]) {
			out = append(out, TopicYearCount{Topic: topic, Year: yc.Year, Count: yc.Count})
		}
	}
	return out
}

// MostFollowedUsers returns the n individual users with the highest follower
// counts, descending. Organizations are excluded.
func MostFollowedUsers(users []model.User, n int) []model.User {
	individuals := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Type == model.OwnerTypeUser {
			individuals = append(individuals, u)
		}
	}
	sort.SliceStable(individuals, func(i, j int) bool {
		return individuals[i].Followers > individuals[j].Followers
	})
	if len(individuals) > n {
		individuals = individuals[:n]
	}
	return individuals
}

// OwnerStars is an owner with the summed star count of their repositories.
type OwnerStars struct {
	Username string
	Stars    int
}

// OwnerStarTotals sums star counts per owner, descending.
func OwnerStarTotals(repos []model.Repository) []OwnerStars {
	totals := make(map[string]int)
	var order []string
	for _, r := range repos {
		if _, ok := totals[r.Username]; !ok {
			order = append(order, r.Username)
		}
		totals[r.Username] += r.Stars
	}
	sort.SliceStable(order, func(i, j int) bool { return totals[order[i]] > totals[order[j]] })

	out := make([]OwnerStars, len(order))
	for i, username := range order {
		out[i] = OwnerStars{Username: username, Stars: totals[username]}
	}
	return out
}

// OrgLanguageCounts counts repositories per language across organization
// repositories, excluding null languages and Jupyter Notebook (notebooks
// drown out the actual implementation languages), topN most used first.
func OrgLanguageCounts(repos []model.Repository, topN int) []LanguageBucket {
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		if !r.Language.Valid || r.Language.String == "Jupyter Notebook" {
			continue
		}
		if _, ok := counts[r.Language.String]; !ok {
			order = append(order, r.Language.String)
		}
		counts[r.Language.String]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > topN {
		order = order[:topN]
	}

	out := make([]LanguageBucket, len(order))
	for i, lang := range order {
		out[i] = LanguageBucket{Language: lang, Repos: counts[lang]}
	}
	return out
}

// OrgLanguageYears buckets organization repositories by creation year for
// each of the given languages.
func OrgLanguageYears(repos []model.Repository, languages []string) map[string][]YearCount {
	wanted := make(map[string]bool, len(languages))
	for _, lang := range languages {
		wanted[lang] = true
	}

	counts := make(map[string]map[int]int)
	for _, r := range repos {
		if !r.Language.Valid || !wanted[r.Language.String] || r.Created.IsZero() {
			continue
		}
		lang := r.Language.String
		if counts[lang] == nil {
			counts[lang] = make(map[int]int)
		}
		counts[lang][r.Created.Year()]++
	}

	out := make(map[string][]YearCount, len(counts))
	for lang, byYear := range counts {
		out[lang] = sortYearCounts(byYear)
	}
	return out
}

// CountryPoint is the per-country aggregation behind the user map: mean
// coordinate and user count.
type CountryPoint struct {
	Country   string
	Continent string
	Latitude  float64
	Longitude float64
	Count     int
}

// CountryAggregates averages user coordinates per country.
func CountryAggregates(locations []model.UserLocation) []CountryPoint {
	type acc struct {
		lat, lng  float64
		count     int
		continent string
	}
	accs := make(map[string]*acc)
	var order []string

	for _, loc := range locations {
		a, ok := accs[loc.Country]
		if !ok {
			a = &acc{continent: loc.Continent.String}
			accs[loc.Country] = a
			order = append(order, loc.Country)
		}
		a.lat += loc.Latitude
		a.lng += loc.Longitude
		a.count++
	}

	out := make([]CountryPoint, len(order))
	for i, country := range order {
		a := accs[country]
		out[i] = CountryPoint{
			Country:   country,
			Continent: a.continent,
			Latitude:  a.lat / float64(a.count),
			Longitude: a.lng / float64(a.count),
			Count:     a.count,
		}
	}
	return out
}

func sortYearCounts(byYear map[int]int) []YearCount {
	out := make([]YearCount, 0, len(byYear))
	for year, count := range byYear {
		out = append(out, YearCount{Year: year, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
