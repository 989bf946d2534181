package core

// csvformat.go holds the pure parts of the CSV codec: reading and validating
// import rows, parsing dates and quantities, and writing export rows. It
// touches no database so every edge case is unit-tested directly.

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Seção,Tipo,Produto,Validade,Total,Prateleira"

var csvColumns = strings.Split(CSVHeader, ",")

// Column positions in a data row.
const (
	colSection = iota
	colType
	colProduct
	colExpiry
	colTotal
	colShelf
	columnCount
)

// dateLayouts are tried in order. ISO forms come first so the day-first
// forms never shadow them.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
}

// ParseDate parses an expiry date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", s, ErrInvalidInput)
}

// dateOnly truncates t to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseQuantity reads an integer field. Anything that is not an integer
// counts as zero.
func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// importRow is a validated data row.
type importRow struct {
	Section string
	Type    string
	Product string
	Expiry  time.Time
	Total   int
	Shelf   int
}

// parseImportRow validates one record. ok is false when the row must be
// skipped.
func parseImportRow(record []string) (row importRow, ok bool) {
	if len(record) < columnCount {
		return importRow{}, false
	}

	row = importRow{
		Section: strings.TrimSpace(record[colSection]),
		Type:    strings.TrimSpace(record[colType]),
		Product: CanonicalName(record[colProduct]),
		Total:   parseQuantity(record[colTotal]),
		Shelf:   parseQuantity(record[colShelf]),
	}
	if row.Section == "" || row.Type == "" || row.Product == "" {
		return importRow{}, false
	}

	expiry, err := ParseDate(record[colExpiry])
	if err != nil {
		return importRow{}, false
	}
	row.Expiry = expiry

	if row.Total < 0 || row.Total > maxQuantity || row.Shelf < 0 || row.Shelf > row.Total {
		return importRow{}, false
	}
	return row, true
}

// maxImportLine bounds a single CSV line.
const maxImportLine = 1 << 20

// newImportScanner strips a UTF-8 byte order mark, replaces invalid UTF-8
// with U+FFFD and yields the input one line at a time.
func newImportScanner(r io.Reader) *bufio.Scanner {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	return sc
}

// splitImportLine parses one line on its own, so an unbalanced quote costs
// only that line. Quoted fields from an export still keep their commas.
func splitImportLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.Read()
}

// readImport parses a whole upload before anything is deleted. It returns
// the valid rows and the number of skipped lines, or ErrInvalidFormat when
// the input is empty or the header does not name the section column.
func readImport(r io.Reader) ([]importRow, int, error) {
	sc := newImportScanner(r)

	var (
		header    []string
		sawHeader bool
		rows      []importRow
		skipped   int
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		record, err := splitImportLine(line)
		if !sawHeader {
			sawHeader = true
			if err == nil {
				header = record
			}
			if !headerMentionsSection(header) {
				return nil, 0, fmt.Errorf("header %q has no section column: %w", line, ErrInvalidFormat)
			}
			continue
		}

		if err != nil {
			skipped++
			continue
		}
		row, ok := parseImportRow(record)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, 0, fmt.Errorf("line longer than %d bytes: %w", maxImportLine, ErrInvalidFormat)
		}
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}
	if !sawHeader {
		return nil, 0, fmt.Errorf("empty file: %w", ErrInvalidFormat)
	}

	return rows, skipped, nil
}


// exportRow is one batch with its ancestry.
type exportRow struct {
	Section string
	Type    string
	Product string
	Expiry  time.Time
	Total   int
	Shelf   int
}

// writeExport writes the header and rows. Names containing commas or quotes
// are quoted by encoding/csv.
func writeExport(w io.Writer, rows []exportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Section,
			r.Type,
			r.Product,
			r.Expiry.Format(DateLayout),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Shelf),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
