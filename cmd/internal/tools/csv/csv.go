package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string
var MessageError bool
var ParityError bool
var Iterations bool
var Unconverged bool
var BySNR bool

var CSVRun = func(cmd *cobra.Command, args []string) {
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

	write := Write
	if BySNR {
		write = WriteBySNR
	}
	if err := write(f, names, stats, metric()); err != nil {
		fmt.Println(err)
	}
}

func metric() tools.Metric {
	switch {
	case MessageError:
		return tools.MessageError
	case ParityError:
		return tools.ParityError
	case Iterations:
		return tools.Iterations
	case Unconverged:
		return tools.Unconverged
	}
	return tools.CodewordError
}

//Write emits one row per results file and one column per SNR. SNRs a file did
// not simulate are left empty.
func Write(w io.Writer, names []string, stats []*tools.SimulationStats, m tools.Metric) error {
	snrs := tools.SNRs(stats)

	header := []string{m.String()}
	for _, snr := range snrs {
		header = append(header, format(snr))
	}

	records := [][]string{header}
	for i, s := range stats {
		record := make([]string, len(header))
		record[0] = names[i]
		for j, snr := range snrs {
			if v, has := s.Stats[snr]; has {
				record[j+1] = format(m.Value(v))
			}
		}
		records = append(records, record)
	}

	cw := csv.NewWriter(w)
	return cw.WriteAll(records)
}

//WriteBySNR is Write transposed, one row per SNR which suits spreadsheet charts.
func WriteBySNR(w io.Writer, names []string, stats []*tools.SimulationStats, m tools.Metric) error {
	header := append([]string{"SNR (dB)"}, names...)

	records := [][]string{header}
	for _, snr := range tools.SNRs(stats) {
		record := make([]string, len(header))
		record[0] = format(snr)
		for i, s := range stats {
			if v, has := s.Stats[snr]; has {
				record[i+1] = format(m.Value(v))
			}
		}
		records = append(records, record)
	}

	cw := csv.NewWriter(w)
	return cw.WriteAll(records)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
