package timeseries

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `ds,y
2020-01-01,100
2020-02-01,101
2020-03-01,NA
2020-04-01,103
2020-05-01,104`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 5 {
		t.Fatalf("Expected 5 observations, got %d", series.Len())
	}
	if !math.IsNaN(series.Values[2]) {
		t.Errorf("Expected a missing value, got %f", series.Values[2])
	}
	if !series.HasTimestamps() || series.Timestamps[1].Month() != time.February {
		t.Errorf("Unexpected timestamps %v", series.Timestamps)
	}
	if series.Name != "y" {
		t.Errorf("Expected name y, got %q", series.Name)
	}
}

func TestLoadCSVWithFilter(t *testing.T) {
	csvData := `unique_id,ds,y
A,2020-01-01,100
B,2020-01-01,200
A,2020-01-02,101
B,2020-01-02,201
A,2020-01-03,102`

	opts := DefaultCSVOptions()
	opts.IDColumn = "unique_id"
	opts.IDFilter = "A"

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{100, 101, 102}
	if series.Len() != len(expected) {
		t.Fatalf("Expected %d observations, got %d", len(expected), series.Len())
	}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrNoData},
		{"header only", "ds,y\n", ErrNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSVFromReader(strings.NewReader(tt.data), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadCSVFromReader(strings.NewReader("y\nabc\n"), nil); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestLoadColumns(t *testing.T) {
	csvData := `date,y,x1,x2
2020-01-01,1,0.5,1
2020-02-01,2,,0
2020-03-01,,1.5,1`

	cols, err := LoadColumns(strings.NewReader(csvData), nil, "x2", "y")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || len(cols[0]) != 3 {
		t.Fatalf("Unexpected shape %v", cols)
	}
	if cols[0][1] != 0 || !math.IsNaN(cols[1][2]) {
		t.Errorf("Unexpected values %v", cols)
	}

	if _, err := LoadColumns(strings.NewReader(csvData), nil, "x3"); !errors.Is(err, ErrColumn) {
		t.Errorf("Expected ErrColumn, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	ts := []time.Time{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}
	err := WriteCSV(&buf, ts, []string{"trend", "sa"}, [][]float64{{1.5, 2}, {math.NaN(), 3}})
	if err != nil {
		t.Fatal(err)
	}
	want := "ds,trend,sa\n2021-01-01,1.5,\n2,2,3\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}

	if err := WriteCSV(&buf, nil, []string{"a"}, nil); err == nil {
		t.Error("Expected a length error")
	}
}
