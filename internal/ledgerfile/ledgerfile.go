// Package ledgerfile reads and writes the ledger as semicolon-delimited
// text. It knows nothing about the meaning of the columns; numbers are
// written by the ledger package as plain integers ("0", not "00").
package ledgerfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const delimiter = ';'

// Read returns every row of the file at path. A missing file is created
// empty and yields no rows.
func Read(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := create(path); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	return rows, nil
}

func Encode(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	return nil
}

// Write replaces the file at path with rows. The content goes to a
// temporary file first so an interrupted write leaves the old ledger.
func Write(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".worktime-*.csv")
	if err != nil {
		return fmt.Errorf("creating temporary ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary ledger: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting ledger permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

func create(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	return f.Close()
}
