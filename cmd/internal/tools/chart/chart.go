package chart

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string
var MessageError bool
var ParityError bool
var LogScale bool

var ChartRun = func(cmd *cobra.Command, args []string) {
	stats, err := tools.LoadAllResults(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = tools.ResultName(arg)
	}

	m := tools.CodewordError
	switch {
	case MessageError:
		m = tools.MessageError
	case ParityError:
		m = tools.ParityError
	}

	err = NewChart(names, stats, m).Render(f)
	if err != nil {
		fmt.Println(err)
	}
}

//NewChart draws one line per results file of the metric against SNR.
func NewChart(names []string, stats []*tools.SimulationStats, m tools.Metric) *charts.Line {
	snrs := tools.SNRs(stats)
	xnames := make([]string, len(snrs))
	for i, snr := range snrs {
		xnames[i] = fmt.Sprint(snr)
	}

	yAxis := opts.YAxis{
		Name:      m.String(),
		SplitLine: &opts.SplitLine{Show: true},
	}
	if LogScale {
		yAxis.Type = "log"
	}

	line := charts.NewLine()
	// set some global options like Title/Legend/ToolTip or anything else
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: m.String(),
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "SNR (dB)",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(yAxis),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	line.SetXAxis(xnames)

	for i, s := range stats {
		line.AddSeries(names[i], series(s, snrs, m))
	}
	return line
}

func series(stat *tools.SimulationStats, snrs []float64, m tools.Metric) []opts.LineData {
	results := make([]opts.LineData, len(snrs))
	null := opts.LineData{Value: nil}
	for i, snr := range snrs {
		x, has := stat.Stats[snr]
		if !has {
			results[i] = null
			continue
		}

		results[i] = opts.LineData{
			Value: m.Value(x),
		}
	}
	return results
}
