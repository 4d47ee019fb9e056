package reporter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-trends/internal/model"
)

func createdIn(year int) model.Timestamp {
	return model.Timestamp{Time: time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)}
}

func TestTopReposByStars(t *testing.T) {
	repos := []model.Repository{
		{ID: 1, Name: "mid", Stars: 100},
		{ID: 2, Name: "low", Stars: 50},
		{ID: 3, Name: "high", Stars: 200},
	}

	top := TopReposByStars(repos, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Name)
	assert.Equal(t, "mid", top[1].Name)
}

func TestLanguageBuckets(t *testing.T) {
	t.Run("overflow languages collapse into a trailing Other bucket", func(t *testing.T) {
		var repos []model.Repository
		// Go appears three times, Python twice, then five singletons.
		for i := 0; i < 3; i++ {
			repos = append(repos, model.Repository{Language: model.StringOf("Go"), Stars: 10, Subject: "ml"})
		}
		for i := 0; i < 2; i++ {
			repos = append(repos, model.Repository{Language: model.StringOf("Python"), Stars: 5, Subject: "ml"})
		}
		for _, lang := range []string{"Rust", "C", "Java", "Ruby", "Perl"} {
			repos = append(repos, model.Repository{Language: model.StringOf(lang), Stars: 1, Subject: "ml"})
		}

		languages, bySubject := LanguageBuckets(repos, 2)
		assert.Equal(t, []string{"Go", "Python", "Other"}, languages)
		require.Len(t, bySubject, 1)
		assert.Equal(t, []LanguageBucket{
			{Language: "Go", Repos: 3, Stars: 30},
			{Language: "Python", Repos: 2, Stars: 10},
			{Language: "Other", Repos: 5, Stars: 5},
		}, bySubject["ml"])
	})

	t.Run("ten named buckets plus Other absorbing the remainder", func(t *testing.T) {
		// Fifteen distinct languages: ten used twice, five used once.
		var repos []model.Repository
		for i := 0; i < 10; i++ {
			lang := fmt.Sprintf("Lang%02d", i)
			repos = append(repos,
				model.Repository{Language: model.StringOf(lang), Stars: 100 - i, Subject: "ml"},
				model.Repository{Language: model.StringOf(lang), Subject: "ml"})
		}
		for i := 10; i < 15; i++ {
			repos = append(repos, model.Repository{Language: model.StringOf(fmt.Sprintf("Lang%02d", i)), Stars: 1, Subject: "ml"})
		}

		languages, bySubject := LanguageBuckets(repos, 10)
		require.Len(t, languages, 11)
		assert.Equal(t, "Other", languages[10])

		buckets := bySubject["ml"]
		for _, b := range buckets[:10] {
			assert.Equal(t, 2, b.Repos)
		}
		assert.Equal(t, 5, buckets[10].Repos, "the five overflow languages collapse into Other")
		assert.Equal(t, 5, buckets[10].Stars)
	})

	t.Run("named languages sort by stars with Other pinned last", func(t *testing.T) {
		repos := []model.Repository{
			{Language: model.StringOf("Go"), Stars: 1},
			{Language: model.StringOf("Python"), Stars: 500},
			{Language: model.StringOf("Rust"), Stars: 900},
		}

		languages, _ := LanguageBuckets(repos, 2)
		assert.Equal(t, []string{"Python", "Go", "Other"}, languages)
	})

	t.Run("null language and MATLAB casing are normalized", func(t *testing.T) {
		repos := []model.Repository{
			{Stars: 1},
			{Language: model.StringOf("MATLAB"), Stars: 2},
		}

		languages, _ := LanguageBuckets(repos, 5)
		assert.Contains(t, languages, "No language")
		assert.Contains(t, languages, "Matlab")
	})

	t.Run("star totals partition by subject over the shared axis", func(t *testing.T) {
		repos := []model.Repository{
			{Language: model.StringOf("Go"), Stars: 10, Subject: "ml"},
			{Language: model.StringOf("Go"), Stars: 3, Subject: "dl"},
			{Language: model.StringOf("Python"), Stars: 7, Subject: "dl"},
		}

		languages, bySubject := LanguageBuckets(repos, 5)
		assert.Equal(t, []string{"Go", "Python"}, languages)
		assert.Equal(t, []LanguageBucket{
			{Language: "Go", Repos: 1, Stars: 10},
			{Language: "Python"},
		}, bySubject["ml"])
		assert.Equal(t, []LanguageBucket{
			{Language: "Go", Repos: 1, Stars: 3},
			{Language: "Python", Repos: 1, Stars: 7},
		}, bySubject["dl"])
	})
}

func TestLogStarSamples(t *testing.T) {
	repos := []model.Repository{
		{Subject: "ml", Stars: 1},
		{Subject: "ml", Stars: 0},
		{Subject: "dl", Stars: 10},
	}

	samples := LogStarSamples(repos)
	require.Len(t, samples["ml"], 1, "zero-star rows are excluded")
	assert.InDelta(t, 0, samples["ml"][0], 1e-9)
	require.Len(t, samples["dl"], 1)
	assert.InDelta(t, 2.302585, samples["dl"][0], 1e-5)
}

func TestYearlyRepoCounts(t *testing.T) {
	repos := []model.Repository{
		{Subject: "ml", Created: createdIn(2020)},
		{Subject: "ml", Created: createdIn(2020)},
		{Subject: "ml", Created: createdIn(2022)},
		{Subject: "ml"},
	}

	counts := YearlyRepoCounts(repos)
	assert.Equal(t, []YearCount{{Year: 2020, Count: 2}, {Year: 2022, Count: 1}}, counts["ml"])
}

func TestYearlyMedianStars(t *testing.T) {
	repos := []model.Repository{
		{Subject: "ml", Stars: 10, Created: createdIn(2021)},
		{Subject: "ml", Stars: 30, Created: createdIn(2021)},
		{Subject: "ml", Stars: 20, Created: createdIn(2021)},
	}

	medians := YearlyMedianStars(repos)
	require.Len(t, medians["ml"], 1)
	assert.Equal(t, 2021, medians["ml"][0].Year)
	assert.InDelta(t, 20, medians["ml"][0].Value, 1e-9)
}

func TestTopTopicsByYear(t *testing.T) {
	repos := []model.Repository{
		{Topics: model.TopicList{"ml", "go"}, Created: createdIn(2020)},
		{Topics: model.TopicList{"ml"}, Created: createdIn(2021)},
		{Topics: model.TopicList{"rare"}, Created: createdIn(2021)},
	}

	cells := TopTopicsByYear(repos, 2)
	assert.Equal(t, []TopicYearCount{
		{Topic: "ml", Year: 2020, Count: 1},
		{Topic: "ml", Year: 2021, Count: 1},
		{Topic: "go", Year: 2020, Count: 1},
	}, cells, "only the two most frequent topics survive")
}

func TestMostFollowedUsers(t *testing.T) {
	users := []model.User{
		{Username: "org", Type: model.OwnerTypeOrganization, Followers: 9000},
		{Username: "low", Type: model.OwnerTypeUser, Followers: 5},
		{Username: "high", Type: model.OwnerTypeUser, Followers: 500},
	}

	top := MostFollowedUsers(users, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Username)
	assert.Equal(t, "low", top[1].Username)
}

func TestOwnerStarTotals(t *testing.T) {
	repos := []model.Repository{
		{Username: "a", Stars: 4},
		{Username: "b", Stars: 5},
		{Username: "a", Stars: 6},
	}

	totals := OwnerStarTotals(repos)
	assert.Equal(t, []OwnerStars{{Username: "a", Stars: 10}, {Username: "b", Stars: 5}}, totals)
}

func TestOrgLanguageCounts(t *testing.T) {
	repos := []model.Repository{
		{Language: model.StringOf("Python")},
		{Language: model.StringOf("Python")},
		{Language: model.StringOf("Go")},
		{Language: model.StringOf("Jupyter Notebook")},
		{},
	}

	counts := OrgLanguageCounts(repos, 5)
	assert.Equal(t, []LanguageBucket{
		{Language: "Python", Repos: 2},
		{Language: "Go", Repos: 1},
	}, counts, "notebooks and null languages excluded")
}

func TestOrgLanguageYears(t *testing.T) {
	repos := []model.Repository{
		{Language: model.StringOf("Go"), Created: createdIn(2020)},
		{Language: model.StringOf("Go"), Created: createdIn(2020)},
		{Language: model.StringOf("Go"), Created: createdIn(2021)},
		{Language: model.StringOf("Python"), Created: createdIn(2021)},
	}

	years := OrgLanguageYears(repos, []string{"Go"})
	assert.Equal(t, map[string][]YearCount{
		"Go": {{Year: 2020, Count: 2}, {Year: 2021, Count: 1}},
	}, years)
}

func TestCountryAggregates(t *testing.T) {
	locations := []model.UserLocation{
		{Country: "Canada", Continent: model.StringOf("North America"), Latitude: 40, Longitude: -70},
		{Country: "Canada", Continent: model.StringOf("North America"), Latitude: 50, Longitude: -80},
		{Country: "Japan", Continent: model.StringOf("Asia"), Latitude: 35, Longitude: 139},
	}

	points := CountryAggregates(locations)
	require.Len(t, points, 2)
	assert.Equal(t, CountryPoint{Country: "Canada", Continent: "North America", Latitude: 45, Longitude: -75, Count: 2}, points[0])
	assert.Equal(t, 1, points[1].Count)
}

func TestWordCounts(t *testing.T) {
	texts := []model.NullString{
		model.StringOf("Deep learning, for the people"),
		model.StringOf("深度学习 toolkit"),
		{},
	}

	counts := WordCounts(texts)
	assert.Equal(t, 1, counts["deep"])
	assert.Equal(t, 1, counts["learning"])
	assert.Equal(t, 1, counts["people"])
	assert.Zero(t, counts["for"], "stopwords are dropped")
	assert.Zero(t, counts["toolkit"], "rows with non-ASCII text are skipped entirely")
}

func TestGaussianKDE(t *testing.T) {
	samples := []float64{1, 2, 2, 3}

	curve := gaussianKDE(samples, 50)
	require.Len(t, curve, 50)
	assert.InDelta(t, 1, curve[0].X, 1e-9)
	assert.InDelta(t, 3, curve[len(curve)-1].X, 1e-9)

	peak := 0
	for i, p := range curve {
		if p.Density > curve[peak].Density {
			peak = i
		}
	}
	assert.InDelta(t, 2, curve[peak].X, 0.3, "density peaks near the sample mode")

	for _, p := range curve {
		assert.Positive(t, p.Density)
	}
}
