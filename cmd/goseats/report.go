package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sartorproj/goseats/stats"
	"github.com/sartorproj/goseats/sts"
	"github.com/sartorproj/goseats/timeseries"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).MarginTop(1)
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func heading(s string) {
	fmt.Println(title.Render(s))
}

func printFit(f *sts.Fit) {
	heading("model")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	s := f.Spec
	row := func(name string, p *sts.Param) {
		if p == nil {
			return
		}
		fixed := ""
		if p.Fixed {
			fixed = dim.Render("fixed")
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", name, p.Variance, fixed)
	}
	row("level", s.Level)
	row("slope", s.Slope)
	if s.Seasonal != nil {
		row(fmt.Sprintf("seasonal (%d)", s.Seasonal.Period), &s.Seasonal.Param)
	}
	if s.AR != nil {
		row(fmt.Sprintf("ar %v", s.AR.Coefficients), &s.AR.Param)
	}
	row("noise", s.Noise)
	for i, name := range s.Regression {
		if i < len(f.Coefficients) {
			fmt.Fprintf(w, "%s\t%.6g\t%s\n", name, f.Coefficients[i], dim.Render("coefficient"))
		}
	}
	w.Flush()

	heading("likelihood")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "log-likelihood\t%.4f\n", f.LogLikelihood)
	fmt.Fprintf(w, "aic\t%.4f\n", f.AIC)
	fmt.Fprintf(w, "bic\t%.4f\n", f.BIC)
	fmt.Fprintf(w, "observations\t%d\n", f.Observations)
	fmt.Fprintf(w, "iterations\t%d\n", f.Iterations)
	if lb := f.LjungBox; lb != nil {
		fmt.Fprintf(w, "ljung-box (%d)\t%.4f\tp=%.4f\n", lb.Lags, lb.Statistic, lb.PValue)
	}
	if !math.IsNaN(f.DurbinWatson) {
		fmt.Fprintf(w, "durbin-watson\t%.4f\n", f.DurbinWatson)
	}
	w.Flush()

	acf := stats.ACF(f.Residuals, 24)
	if lags := stats.SignificantLags(acf, stats.ConfidenceBound(len(f.Residuals))); len(lags) > 0 {
		fmt.Println(warn.Render(fmt.Sprintf("significant residual autocorrelations at lags %v", lags)))
	}
}

func printDecomposition(series *timeseries.Series, d *sts.Decomposition) {
	heading("components")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "component\tlast\tstdev\tforecast(1)")
	for _, c := range d.Components() {
		if isZero(c.Estimates, d.Multiplicative) {
			continue
		}
		n := len(c.Estimates)
		sd, f := "", ""
		if n > 0 && len(c.Stdev) == n {
			sd = fmt.Sprintf("%.4f", c.Stdev[n-1])
		}
		if len(c.Forecasts) > 0 {
			f = fmt.Sprintf("%.4f", c.Forecasts[0])
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\t%s\n", c.Name, c.Estimates[n-1], sd, f)
	}
	w.Flush()
	if d.Multiplicative {
		fmt.Println(dim.Render("multiplicative decomposition: standard errors refer to the logged series"))
	}
}

// isZero reports whether a component is absent (0, or 1 for factors).
func isZero(x []float64, multiplicative bool) bool {
	neutral := 0.0
	if multiplicative {
		neutral = 1
	}
	for _, v := range x {
		if v != neutral {
			return false
		}
	}
	return true
}

func printForecasts(series *timeseries.Series, d *sts.Decomposition) {
	heading("forecasts")
	dates := series.Extend(len(d.Forecasts))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "h\tdate\tseries\ttrend\tsa\tsa stdev")
	for h, v := range d.Forecasts {
		date := ""
		if h < len(dates) {
			date = dates[h].Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%s\t%s\t%s\n", h+1, date, v,
			at(d.Trend.Forecasts, h), at(d.Adjusted.Forecasts, h), at(d.Adjusted.StdevForecasts, h))
	}
	w.Flush()
}

func at(x []float64, i int) string {
	if i >= len(x) {
		return ""
	}
	return fmt.Sprintf("%.4f", x[i])
}

func plotDecomposition(d *sts.Decomposition) {
	plots := []struct {
		caption string
		series  [][]float64
	}{
		{"series and trend", [][]float64{d.Series, d.Trend.Estimates}},
		{"seasonally adjusted", [][]float64{d.Adjusted.Estimates}},
		{"seasonal", [][]float64{d.Seasonal.Estimates}},
		{"cycle", [][]float64{d.Cycle.Estimates}},
		{"irregular", [][]float64{d.Irregular.Estimates}},
	}
	for _, p := range plots {
		if isZero(p.series[len(p.series)-1], d.Multiplicative) {
			continue
		}
		fmt.Println(asciigraph.PlotMany(p.series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
			asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		))
		fmt.Println()
	}
}

func plotForecasts(d *sts.Decomposition) {
	data := append(append([]float64(nil), d.Series...), d.Forecasts...)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("series and %d forecasts", len(d.Forecasts))),
	))
}

func writeDecomposition(path string, series *timeseries.Series, d *sts.Decomposition) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var header []string
	var columns [][]float64
	add := func(name string, est, fc []float64) {
		header = append(header, name)
		columns = append(columns, append(append([]float64(nil), est...), fc...))
	}
	add("y", d.Series, d.Forecasts)
	for _, c := range d.Components() {
		if isZero(c.Estimates, d.Multiplicative) {
			continue
		}
		add(c.Name, c.Estimates, c.Forecasts)
		if len(c.Stdev) > 0 {
			add(c.Name+"_stdev", c.Stdev, c.StdevForecasts)
		}
	}
	var dates []time.Time
	if series.HasTimestamps() {
		dates = append(series.Timestamps[:series.Len():series.Len()], series.Extend(len(d.Forecasts))...)
	}
	return timeseries.WriteCSV(f, dates, header, columns)
}
