package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gocarina/gocsv"
)

// The hosted reference table carries capitalized headers.
type continentRow struct {
	Country   string `csv:"Country"`
	Continent string `csv:"Continent"`
}

// LoadContinentTable fetches the static country→continent reference table
// from its hosted CSV and returns it keyed by country name.
func LoadContinentTable(ctx context.Context, url string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching continent table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching continent table: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading continent table: %w", err)
	}

	var rows []continentRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing continent table: %w", err)
	}

	continents := make(map[string]string, len(rows))
	for _, row := range rows {
		continents[row.Country] = row.Continent
	}
	return continents, nil
}
