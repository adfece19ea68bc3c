package aircraft

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Database.Get when no record matches the
// requested address.
var ErrNotFound = errors.New("aircraft: not found")

const (
	columnICAOAddress = iota
	columnRegistration
	columnTypeDesignator
	columnModel
	columnDescription
	columnWakeTurbulenceCategory
	columnCount
)

// Database looks up aircraft metadata from a ZIP archive of CSV files,
// one per pair of trailing ICAO address hex digits (e.g. "7C.csv"), each
// sorted by ICAO address so a lookup can stop scanning as soon as it
// passes the target.
type Database struct {
	path string
}

// NewDatabase wraps the ZIP archive at path. The archive is opened fresh
// on every Get call rather than held open, matching how the data is used:
// rarely, and from any number of goroutines.
func NewDatabase(path string) *Database {
	return &Database{path: path}
}

// Get returns the metadata for address, or ErrNotFound if the archive has
// no entry for it.
func (d *Database) Get(address ICAOAddress) (Data, error) {
	zr, err := zip.OpenReader(d.path)
	if err != nil {
		return Data{}, fmt.Errorf("aircraft: opening database: %w", err)
	}
	defer zr.Close()

	entryName := address.String()[4:6] + ".csv"
	f, err := zr.Open(entryName)
	if err != nil {
		return Data{}, ErrNotFound
	}
	defer f.Close()

	target := address.String()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		columns := strings.SplitN(line, ",", columnCount)
		if len(columns) != columnCount {
			continue
		}
		switch strings.Compare(columns[columnICAOAddress], target) {
		case 0:
			return parseRecord(columns)
		case 1:
			// File is sorted by address; once we've passed target, it's
			// not present.
			return Data{}, ErrNotFound
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return Data{}, fmt.Errorf("aircraft: reading database entry %s: %w", entryName, err)
	}
	return Data{}, ErrNotFound
}

func parseRecord(columns []string) (Data, error) {
	registration, err := NewRegistration(columns[columnRegistration])
	if err != nil {
		return Data{}, err
	}
	typeDesignator, err := NewTypeDesignator(columns[columnTypeDesignator])
	if err != nil {
		return Data{}, err
	}
	description, err := NewDescription(columns[columnDescription])
	if err != nil {
		return Data{}, err
	}
	return Data{
		Registration:           registration,
		TypeDesignator:         typeDesignator,
		Model:                  columns[columnModel],
		Description:            description,
		WakeTurbulenceCategory: ParseWakeTurbulenceCategory(columns[columnWakeTurbulenceCategory]),
	}, nil
}
