// Package dataset reads and writes the per-source and merged delimited
// datasets. Reads tolerate a byte-order mark and legacy Windows-1255
// files via an ordered encoding cascade; writes are always a full atomic
// rewrite so a concurrent reader never observes a partial table.
package dataset

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// Table is a header plus rows keyed by column name. Columns a row does
// not carry read back as empty strings; columns this build does not know
// about round-trip untouched.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// utf8BOM is the byte-order mark spreadsheet tools prepend to UTF-8 CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder is one candidate in the ordered encoding cascade.
type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

var decoders = []decoder{
	{"utf-8-sig", func(b []byte) (string, bool) {
		if !bytes.HasPrefix(b, utf8BOM) {
			return "", false
		}
		b = bytes.TrimPrefix(b, utf8BOM)
		return string(b), utf8.Valid(b)
	}},
	{"utf-8", func(b []byte) (string, bool) {
		return string(b), utf8.Valid(b)
	}},
	{"windows-1255", func(b []byte) (string, bool) {
		s, err := charmap.Windows1255.NewDecoder().String(string(b))
		// The charmap decoder substitutes U+FFFD for undefined bytes
		// instead of failing; treat any substitution as a miss so a
		// truly undecodable file errors rather than reading garbage.
		return s, err == nil && !strings.ContainsRune(s, '\uFFFD')
	}},
}

// Exists reports whether a dataset file is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read loads a dataset, trying each candidate encoding in order and
// keeping the first that both decodes and parses. Exhausting the cascade
// surfaces the last parse error.
func Read(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}

	var lastErr error
	for _, d := range decoders {
		text, ok := d.decode(raw)
		if !ok {
			continue
		}
		t, err := parse(text)
		if err != nil {
			lastErr = err
			continue
		}
		return t, nil
	}

	if lastErr == nil {
		lastErr = eris.New("no candidate encoding decoded the file")
	}
	return nil, eris.Wrapf(lastErr, "dataset: parse %s", path)
}

func parse(text string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read rows")
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := &Table{Columns: records[0]}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write persists the table as UTF-8 CSV with a BOM, via a temp file and
// atomic rename in the target directory. Values under columns not listed
// in t.Columns are not written.
func Write(path string, t *Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "dataset: create temp for %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(utf8BOM); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: write bom")
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: write header")
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return eris.Wrap(err, "dataset: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: flush")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: sync")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "dataset: close temp")
	}

	return eris.Wrapf(os.Rename(tmpName, path), "dataset: rename into %s", path)
}

// EnsureColumns appends any missing names to the table's column list so
// later writes include them.
func (t *Table) EnsureColumns(names ...string) {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = true
	}
	for _, n := range names {
		if !have[n] {
			t.Columns = append(t.Columns, n)
			have[n] = true
		}
	}
}

// HasColumn reports whether the table's header lists the column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
