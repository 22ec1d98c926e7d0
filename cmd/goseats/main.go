package main

import (
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/sts"
	"github.com/sartorproj/goseats/timeseries"
)

var (
	dataFile    string
	column      string
	dateColumn  string
	idColumn    string
	idValue     string
	modelFile   string
	outFile     string
	forecasts   int
	horizon     int
	extraMargin int
	mean        bool
	estimate    bool
	logSeries   bool
	plot        bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goseats",
		Short: "signal extraction in structural time series models",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "csv file holding the series")
	rootCmd.PersistentFlags().StringVar(&column, "column", "y", "value column")
	rootCmd.PersistentFlags().StringVar(&dateColumn, "date-column", "", "date column (detected when empty)")
	rootCmd.PersistentFlags().StringVar(&idColumn, "id-column", "", "series id column")
	rootCmd.PersistentFlags().StringVar(&idValue, "id", "", "series id to keep")
	rootCmd.PersistentFlags().StringVar(&modelFile, "model", "", "model specification (yaml)")
	rootCmd.PersistentFlags().BoolVar(&logSeries, "log", false, "multiplicative decomposition")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("data")
	_ = rootCmd.MarkPersistentFlagRequired("model")

	decomposeCmd := &cobra.Command{
		Use:   "decompose",
		Short: "estimate the components of the series",
		RunE:  runDecompose,
	}
	decomposeCmd.Flags().IntVar(&forecasts, "forecasts", 0, "number of forecasts")
	decomposeCmd.Flags().IntVar(&extraMargin, "extra-margin", 0, "extra periods in the series extension")
	decomposeCmd.Flags().BoolVar(&mean, "mean", false, "estimate a constant in the differenced series")
	decomposeCmd.Flags().BoolVar(&estimate, "estimate", false, "estimate the free variances first")
	decomposeCmd.Flags().BoolVar(&plot, "plot", false, "plot the components")
	decomposeCmd.Flags().StringVar(&outFile, "out", "", "write the components to a csv file")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "estimate the variances of the model",
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&outFile, "out", "", "write the fitted model to a yaml file")

	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "forecast the series and its components",
		RunE:  runForecast,
	}
	forecastCmd.Flags().IntVar(&horizon, "horizon", 12, "forecast horizon")
	forecastCmd.Flags().BoolVar(&mean, "mean", false, "estimate a constant in the differenced series")
	forecastCmd.Flags().BoolVar(&estimate, "estimate", false, "estimate the free variances first")
	forecastCmd.Flags().BoolVar(&plot, "plot", false, "plot the forecasts")

	rootCmd.AddCommand(decomposeCmd, fitCmd, forecastCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// input is the series, its model and the regression variables.
type input struct {
	series *timeseries.Series
	spec   *sts.Spec
	x      *mat.Dense
}

func load() (*input, error) {
	spec, err := sts.LoadSpec(modelFile)
	if err != nil {
		return nil, err
	}
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = column
	opts.DateColumn = dateColumn
	opts.IDColumn = idColumn
	opts.IDFilter = idValue
	series, err := timeseries.LoadCSV(dataFile, opts)
	if err != nil {
		return nil, err
	}
	in := &input{series: series, spec: spec}
	if len(spec.Regression) == 0 {
		return in, nil
	}

	f, err := os.Open(dataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cols, err := timeseries.LoadColumns(f, opts, spec.Regression...)
	if err != nil {
		return nil, err
	}
	rows := len(cols[0])
	in.x = mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		in.x.SetCol(j, c)
	}
	// rows after the last observation only carry future regressors
	n := series.Len()
	for n > 0 && math.IsNaN(series.Values[n-1]) {
		n--
	}
	in.series = series.Slice(0, n)
	log.WithFields(log.Fields{"rows": rows, "observations": n}).Debug("goseats: regression variables loaded")
	return in, nil
}

func config(in *input) *sts.Config {
	cfg := sts.DefaultConfig()
	cfg.Forecasts = forecasts
	cfg.ExtraMargin = extraMargin
	cfg.MeanCorrection = mean
	cfg.Estimate = estimate
	cfg.Log = logSeries
	cfg.Regressors = in.x
	return cfg
}

func runDecompose(cmd *cobra.Command, args []string) error {
	in, err := load()
	if err != nil {
		return err
	}
	d, err := sts.Decompose(in.series.Values, in.spec, config(in))
	if err != nil {
		return err
	}
	printFit(d.Fit)
	printDecomposition(in.series, d)
	if plot {
		plotDecomposition(d)
	}
	if outFile != "" {
		if err := writeDecomposition(outFile, in.series, d); err != nil {
			return err
		}
		fmt.Printf("components written to %s\n", outFile)
	}
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	in, err := load()
	if err != nil {
		return err
	}
	y := in.series.Values
	if logSeries {
		logged, err := in.series.Log()
		if err != nil {
			return err
		}
		y = logged.Values
	}
	f, err := sts.Estimate(y, in.spec, config(in))
	if err != nil {
		return err
	}
	printFit(f)
	if outFile != "" {
		if err := f.Spec.Save(outFile); err != nil {
			return err
		}
		fmt.Printf("fitted model written to %s\n", outFile)
	}
	return nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	if horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	forecasts = horizon
	in, err := load()
	if err != nil {
		return err
	}
	d, err := sts.Decompose(in.series.Values, in.spec, config(in))
	if err != nil {
		return err
	}
	printForecasts(in.series, d)
	if plot {
		plotForecasts(d)
	}
	return nil
}
