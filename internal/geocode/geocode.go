// Package geocode resolves free-text user locations to coordinates, country,
// and continent through a Nominatim-compatible geocoding service.
package geocode

import (
	"context"
	"log/slog"
	"time"

	geo "github.com/codingsince1985/geo-golang"

	"github-trends/internal/model"
)

// The geocoding provider allows one request per second; lookups are paced
// accordingly.
const lookupPace = time.Second

// defaultDenylist holds location strings previously observed to throw
// resolution errors. They are excluded up front to avoid wasted lookups.
var defaultDenylist = []string{
	"Armonk, New York, U.S.",
	"Worldwide",
	"The Internet",
}

// countryAliases remaps geocoder country names onto the join key used by the
// continent reference table.
var countryAliases = map[string]string{
	"United States":       "US",
	"South Korea":         "Korea, South",
	"North Korea":         "Korea, North",
	"Myanmar":             "Burma",
	"Czechia":             "Czech Republic",
	"Republic of Ireland": "Ireland",
}

// Resolver issues paced geocoding lookups and joins the results against a
// country→continent reference table.
type Resolver struct {
	geocoder   geo.Geocoder
	continents map[string]string
	denylist   map[string]bool
	logger     *slog.Logger

	// sleep is swapped out in tests so pacing doesn't stall the suite.
	sleep func(time.Duration)
}

// NewResolver creates a Resolver with the fixed denylist. continents maps
// country name to continent and may be empty, in which case every row gets a
// null continent.
func NewResolver(geocoder geo.Geocoder, continents map[string]string, logger *slog.Logger) *Resolver {
	denylist := make(map[string]bool, len(defaultDenylist))
	for _, s := range defaultDenylist {
		denylist[s] = true
	}
	return &Resolver{
		geocoder:   geocoder,
		continents: continents,
		denylist:   denylist,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// ResolveLocations geocodes every user row with non-null, non-denylisted
// location text. Rows that fail to resolve are dropped from the derived
// table, never from the user table itself.
func (r *Resolver) ResolveLocations(ctx context.Context, users []model.User) []model.UserLocation {
	var locations []model.UserLocation

	for _, u := range users {
		if ctx.Err() != nil {
			return locations
		}
		if !u.Location.Valid || r.denylist[u.Location.String] {
			continue
		}

		resolved, ok := r.resolve(u.Location.String)
		if !ok {
			continue
		}

		country := resolved.country
		if alias, ok := countryAliases[country]; ok {
			country = alias
		}

		locations = append(locations, model.UserLocation{
			Username:  u.Username,
			Location:  u.Location.String,
			Latitude:  resolved.lat,
			Longitude: resolved.lng,
			Country:   country,
			Continent: model.StringOf(r.continents[country]),
			Subject:   u.Subject,
		})
	}
	return locations
}

type resolution struct {
	lat, lng float64
	country  string
}

// resolve issues the forward lookup for coordinates and a reverse lookup for
// the country name, one paced request each.
func (r *Resolver) resolve(location string) (resolution, bool) {
	r.sleep(lookupPace)
	loc, err := r.geocoder.Geocode(location)
	if err != nil || loc == nil {
		r.logger.Debug("Location failed to geocode, dropping", "location", location, "error", err)
		return resolution{}, false
	}

	r.sleep(lookupPace)
	addr, err := r.geocoder.ReverseGeocode(loc.Lat, loc.Lng)
	if err != nil || addr == nil || addr.Country == "" {
		r.logger.Debug("Coordinate failed to reverse geocode, dropping", "location", location, "error", err)
		return resolution{}, false
	}

	return resolution{lat: loc.Lat, lng: loc.Lng, country: addr.Country}, true
}
