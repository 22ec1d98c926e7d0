package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoData is returned when a CSV file holds no usable row.
	ErrNoData = errors.New("timeseries: no valid data found in CSV")
	// ErrColumn is returned when a requested column does not exist.
	ErrColumn = errors.New("timeseries: unknown column")
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (optional)
	ValueColumn string // Column name for values (default: "y")
	IDColumn    string // Column name for series ID (optional, for filtering)
	IDFilter    string // Value to filter by ID column
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006-01",
	"2006",
}

// table is a parsed CSV file with a header.
type table struct {
	header []string
	dates  []time.Time
	rows   [][]string
}

func (t *table) column(name string) (int, error) {
	for i, h := range t.header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumn, name)
}

// values parses a column; empty cells and NA markers are NaN.
func (t *table) values(idx int) ([]float64, error) {
	out := make([]float64, len(t.rows))
	for i, rec := range t.rows {
		if idx >= len(rec) {
			out[i] = math.NaN()
			continue
		}
		s := rec[idx]
		switch s {
		case "", "NA", "NaN", "nan", "null", ".":
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("timeseries: row %d, column %q: %w", i+1, t.header[idx], err)
		}
		out[i] = v
	}
	return out, nil
}

func readTable(r io.Reader, opts *CSVOptions) (*table, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoData
		}
		return nil, err
	}
	t := &table{header: make([]string, len(header))}
	dateIdx, idIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		t.header[i] = h
		switch {
		case opts.DateColumn != "" && h == opts.DateColumn:
			dateIdx = i
		case opts.DateColumn == "" && (h == "ds" || h == "date" || h == "Date" || h == "Month" || h == "Year"):
			if dateIdx == -1 {
				dateIdx = i
			}
		case opts.IDColumn != "" && h == opts.IDColumn:
			idIdx = i
		}
	}
	if opts.DateColumn != "" && dateIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumn, opts.DateColumn)
	}

	formats := append([]string{opts.DateFormat}, dateFormats...)
	withDates := dateIdx >= 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range record {
			record[i] = strings.TrimSpace(strings.Trim(record[i], "\""))
		}
		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) && record[idIdx] != opts.IDFilter {
			continue
		}
		if withDates {
			ts, ok := parseDate(record, dateIdx, formats)
			if !ok {
				// a single unparsable date drops the timestamps of the whole table
				withDates = false
				t.dates = nil
			} else {
				t.dates = append(t.dates, ts)
			}
		}
		t.rows = append(t.rows, record)
	}
	if len(t.rows) == 0 {
		return nil, ErrNoData
	}
	return t, nil
}

func parseDate(record []string, idx int, formats []string) (time.Time, bool) {
	if idx >= len(record) {
		return time.Time{}, false
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, record[idx]); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader. The first row
// is the header. When the value column is not found, the last column is
// used. Missing values are kept as NaN.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	t, err := readTable(r, opts)
	if err != nil {
		return nil, err
	}
	idx, err := t.column(opts.ValueColumn)
	if err != nil {
		idx = len(t.header) - 1
	}
	values, err := t.values(idx)
	if err != nil {
		return nil, err
	}
	return &Series{Timestamps: t.dates, Values: values, Name: t.header[idx]}, nil
}

// LoadCSVColumn loads a specific column from a CSV file as a series.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = column
	return LoadCSV(filename, opts)
}

// LoadColumns loads several columns of a CSV file. Each returned slice has
// one value per row; missing cells are NaN.
func LoadColumns(r io.Reader, opts *CSVOptions, names ...string) ([][]float64, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	t, err := readTable(r, opts)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(names))
	for i, name := range names {
		idx, err := t.column(name)
		if err != nil {
			return nil, err
		}
		if out[i], err = t.values(idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteCSV writes columns of equal length with their header. When
// timestamps are given, a leading "ds" column is written; otherwise the
// rows are numbered from 1.
func WriteCSV(w io.Writer, timestamps []time.Time, header []string, columns [][]float64) error {
	if len(header) != len(columns) {
		return fmt.Errorf("timeseries: %d names for %d columns", len(header), len(columns))
	}
	n := 0
	for _, c := range columns {
		n = max(n, len(c))
	}
	writer := csv.NewWriter(w)
	first := "index"
	if timestamps != nil {
		first = "ds"
	}
	if err := writer.Write(append([]string{first}, header...)); err != nil {
		return err
	}
	record := make([]string, len(columns)+1)
	for i := 0; i < n; i++ {
		if i < len(timestamps) {
			record[0] = timestamps[i].Format("2006-01-02")
		} else {
			record[0] = strconv.Itoa(i + 1)
		}
		for j, c := range columns {
			if i < len(c) && !math.IsNaN(c[i]) {
				record[j+1] = strconv.FormatFloat(c[i], 'f', -1, 64)
			} else {
				record[j+1] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV saves a time series to a CSV file.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	name := series.Name
	if name == "" {
		name = "y"
	}
	var ts []time.Time
	if series.HasTimestamps() {
		ts = series.Timestamps
	}
	return WriteCSV(file, ts, []string{name}, [][]float64{series.Values})
}
