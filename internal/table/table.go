// Package table reads and writes the pipeline's CSV files. Records are
// marshaled through gocsv so the struct tags in internal/model are the single
// source of truth for column headers.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/gocarina/gocsv"
)

// ErrMissingColumn reports an input table that lacks a column the record
// schema requires. Per the pipeline's error policy this is fatal: the stage
// aborts rather than guessing at the caller's intent.
type ErrMissingColumn struct {
	File   string
	Column string
}

func (e *ErrMissingColumn) Error() string {
	return fmt.Sprintf("table %s: missing required column %q", e.File, e.Column)
}

// Write marshals records to path, creating parent directories as needed.
func Write[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read unmarshals the CSV file at path into records of type T. The file's
// header is validated against T's schema first; a missing column yields a
// *ErrMissingColumn.
func Read[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validateHeader[T](path, data); err != nil {
		return nil, err
	}

	var records []T
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

func validateHeader[T any](path string, data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err == io.EOF {
		header = nil
	} else if err != nil {
		return fmt.Errorf("parsing header of %s: %w", path, err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	for _, col := range Columns[T]() {
		if !present[col] {
			return &ErrMissingColumn{File: filepath.Base(path), Column: col}
		}
	}
	return nil
}

// Columns returns the CSV column names of record type T, in field order.
func Columns[T any]() []string {
	var zero T
	t := reflect.TypeOf(zero)
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("csv")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}
