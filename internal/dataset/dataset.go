// Package dataset loads the static phrase -> translation table.
//
// Two CSV layouts are accepted, both with a header row:
//
//	input,language,translation       (long: one row per phrase and language)
//	input,Spanish,French,...         (wide: one column per target language)
//
// The source column may be named input, source, source_text, phrase or text.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrEmpty           = errors.New("dataset is empty")
	ErrNoSourceColumn  = errors.New("dataset has no source column")
	ErrNoTargetColumns = errors.New("dataset has no target language columns")
	ErrMissingColumn   = errors.New("dataset is missing a required column")
)

var sourceColumns = []string{"input", "source", "source_text", "phrase", "text"}

const (
	languageColumn    = "language"
	translationColumn = "translation"
)

// Entry is one known translation of a source phrase
type Entry struct {
	SourceText  string
	Target      string
	Translation string
}

// Table is the read-only set of entries, in file order
type Table struct {
	entries []Entry
	targets []string
}

// NewTable builds a table directly from entries
func NewTable(entries []Entry) *Table {
	t := &Table{entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]bool)
	for _, e := range entries {
		t.entries = append(t.entries, e)
		key := strings.ToLower(e.Target)
		if !seen[key] {
			seen[key] = true
			t.targets = append(t.targets, e.Target)
		}
	}
	return t
}

// Entries returns all entries in file order
func (t *Table) Entries() []Entry {
	return t.entries
}

// Targets returns the distinct target languages in first-seen order
func (t *Table) Targets() []string {
	return t.targets
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Load reads a dataset file from disk
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a dataset from r
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := normalizeHeader(header)
	src := findColumn(cols, sourceColumns...)
	if src < 0 {
		return nil, ErrNoSourceColumn
	}

	lang, trans := findColumn(cols, languageColumn), findColumn(cols, translationColumn)
	if lang >= 0 && trans >= 0 {
		return parseLong(cr, src, lang, trans)
	}
	if lang >= 0 || trans >= 0 {
		return nil, fmt.Errorf("%w: long format needs both %q and %q", ErrMissingColumn, languageColumn, translationColumn)
	}

	targets := make(map[int]string)
	for i, name := range header {
		if i == src || cols[i] == "" {
			continue
		}
		targets[i] = strings.TrimSpace(name)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargetColumns
	}
	return parseWide(cr, src, header, targets)
}

func parseLong(cr *csv.Reader, src, lang, trans int) (*Table, error) {
	var entries []Entry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		source, target, translation := cell(row, src), cell(row, lang), cell(row, trans)
		if source == "" || target == "" || translation == "" {
			continue
		}
		entries = append(entries, Entry{SourceText: source, Target: target, Translation: translation})
	}
	return NewTable(entries), nil
}

func parseWide(cr *csv.Reader, src int, header []string, targets map[int]string) (*Table, error) {
	var entries []Entry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		source := cell(row, src)
		if source == "" {
			continue
		}
		for i := range header {
			target, ok := targets[i]
			if !ok {
				continue
			}
			// Short rows and blank cells mean "no translation for this target".
			if translation := cell(row, i); translation != "" {
				entries = append(entries, Entry{SourceText: source, Target: target, Translation: translation})
			}
		}
	}
	return NewTable(entries), nil
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
			header[0] = h
		}
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return cols
}

func findColumn(cols []string, names ...string) int {
	for _, name := range names {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
