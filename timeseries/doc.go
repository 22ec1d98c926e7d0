// Package timeseries provides the Series type and its CSV input/output.
//
// Missing observations are kept as NaN so that the models can handle them.
//
// # Loading from CSV
//
//	series, err := timeseries.LoadCSVColumn("data.csv", "value")
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.IDColumn, opts.IDFilter = "country", "Australia"
//	series, err := timeseries.LoadCSV("data.csv", opts)
//
// Regression variables are read with LoadColumns:
//
//	cols, err := timeseries.LoadColumns(f, nil, "easter", "tradingdays")
//
// # Writing results
//
//	err := timeseries.WriteCSV(w, series.Timestamps, []string{"trend", "sa"},
//		[][]float64{trend, sa})
package timeseries
