// Package model defines the tabular records exchanged between the pipeline
// stages. Every record is persisted as one CSV row with a stable header, so
// field tags double as the on-disk column names.
package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Owner type values as reported by the GitHub API.
const (
	OwnerTypeUser         = "User"
	OwnerTypeOrganization = "Organization"
)

// Repository is the metadata scraped for a single GitHub repository.
type Repository struct {
	ID          int64      `csv:"id" json:"id"`
	Name        string     `csv:"repo_name" json:"repo_name"`
	FullName    string     `csv:"full_name" json:"full_name"`
	Description NullString `csv:"description" json:"description"`
	Created     Timestamp  `csv:"created" json:"created"`
	Language    NullString `csv:"language" json:"language"`
	OwnerType   string     `csv:"type" json:"type"`
	Username    string     `csv:"username" json:"username"`
	Stars       int        `csv:"stars" json:"stars"`
	Forks       int        `csv:"forks" json:"forks"`
	Subscribers int        `csv:"subscribers" json:"subscribers"`
	OpenIssues  int        `csv:"open_issues" json:"open_issues"`
	Topics      TopicList  `csv:"topics" json:"topics"`
	Subject     string     `csv:"subject" json:"subject"`
}

// User is the profile scraped for a repository owner. The same record shape
// covers both individual users and organizations; Type tells them apart.
type User struct {
	ID          int64      `csv:"id" json:"id"`
	Username    string     `csv:"username" json:"username"`
	Name        NullString `csv:"name" json:"name"`
	Type        string     `csv:"type" json:"type"`
	Bio         NullString `csv:"bio" json:"bio"`
	Created     Timestamp  `csv:"created" json:"created"`
	Company     NullString `csv:"company" json:"company"`
	Email       NullString `csv:"email" json:"email"`
	Location    NullString `csv:"location" json:"location"`
	Hireable    NullBool   `csv:"hireable" json:"hireable"`
	Followers   int        `csv:"followers" json:"followers"`
	Following   int        `csv:"following" json:"following"`
	PublicGists int        `csv:"public_gists" json:"public_gists"`
	PublicRepos int        `csv:"public_repos" json:"public_repos"`
	Subject     string     `csv:"subject" json:"subject"`
}

// UserLocation is derived from a User whose free-text location resolved
// through geocoding. Coordinates are only ever present on success; rows that
// failed to resolve never make it into this table.
type UserLocation struct {
	Username  string     `csv:"username" json:"username"`
	Location  string     `csv:"location" json:"location"`
	Latitude  float64    `csv:"latitude" json:"latitude"`
	Longitude float64    `csv:"longitude" json:"longitude"`
	Country   string     `csv:"country" json:"country"`
	Continent NullString `csv:"continent" json:"continent"`
	Subject   string     `csv:"subject" json:"subject"`
}

// NullString is a nullable text column. An empty CSV cell reads back as the
// invalid (null) value.
type NullString struct {
	String string
	Valid  bool
}

// StringOf returns a valid NullString wrapping s, or null for empty input.
func StringOf(s string) NullString {
	return NullString{String: s, Valid: s != ""}
}

// StringPtr converts an optional API value to a NullString.
func StringPtr(s *string) NullString {
	if s == nil {
		return NullString{}
	}
	return StringOf(*s)
}

func (s NullString) MarshalCSV() (string, error) {
	if !s.Valid {
		return "", nil
	}
	return s.String, nil
}

func (s *NullString) UnmarshalCSV(v string) error {
	*s = StringOf(v)
	return nil
}

// NullBool is a nullable boolean column, serialized as "true"/"false" or an
// empty cell for null.
type NullBool struct {
	Bool  bool
	Valid bool
}

// BoolPtr converts an optional API value to a NullBool.
func BoolPtr(b *bool) NullBool {
	if b == nil {
		return NullBool{}
	}
	return NullBool{Bool: *b, Valid: true}
}

func (b NullBool) MarshalCSV() (string, error) {
	if !b.Valid {
		return "", nil
	}
	return strconv.FormatBool(b.Bool), nil
}

func (b *NullBool) UnmarshalCSV(v string) error {
	if v == "" {
		*b = NullBool{}
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*b = NullBool{Bool: parsed, Valid: true}
	return nil
}

// Timestamp is a creation time serialized as RFC3339.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.UTC().Format(time.RFC3339), nil
}

func (t *Timestamp) UnmarshalCSV(v string) error {
	if v == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// TopicList is a repository topic list persisted as a JSON array column.
// An empty list serializes to an empty cell and reads back as nil, which is
// the table-level null.
type TopicList []string

func (l TopicList) MarshalCSV() (string, error) {
	if len(l) == 0 {
		return "", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *TopicList) UnmarshalCSV(v string) error {
	if v == "" {
		*l = nil
		return nil
	}
	var topics []string
	if err := json.Unmarshal([]byte(v), &topics); err != nil {
		return err
	}
	if len(topics) == 0 {
		topics = nil
	}
	*l = topics
	return nil
}
