package cmd

import (
	"github.com/nathanhack/ldpcbp/cmd/internal/tools/awgn"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools/chart"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools/csv"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/bp"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for ECCs",
	Long:    `Tools for ECCs`,
}

// toolsChansimCmd represents the chansim command
var toolsChansimCmd = &cobra.Command{
	Use:     "chansim",
	Aliases: []string{"cs", "c"},
	Short:   "Channel simulators",
	Long:    `Channel simulators for linearblock ECCs`,
}

// toolsAWGNCmd represents the awgn command
var toolsAWGNCmd = &cobra.Command{
	Use:     "awgn ECC_JSON_FILE RESULT_JSON",
	Aliases: []string{"a"},
	Short:   "A BPSK over AWGN simulator decoding with belief propagation",
	Long: `A BPSK over additive white gaussian noise channel simulator for linearblock ECCs.
Received words are decoded with log-domain sum-product belief propagation. An existing
RESULT_JSON is continued from where it stopped.`,
	Args: cobra.ExactArgs(2),
	Run:  awgn.AWGNRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Export to an html line chart",
	Long:    `Export the error rate against SNR of every results file to an html line chart`,
	Run:     chart.ChartRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsChansimCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsChansimCmd.AddCommand(toolsAWGNCmd)
	toolsAWGNCmd.Flags().UintVarP(&awgn.Trials, "trials", "t", 100_000, "the number of trials per step")
	toolsAWGNCmd.Flags().Float64SliceVarP(&awgn.SNRs, "snr", "s", []float64{-2, -1, 0, 1, 2, 3, 4, 5, 6}, "the SNRs (dB) to test")
	toolsAWGNCmd.Flags().UintVar(&awgn.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsAWGNCmd.Flags().UintVarP(&awgn.MaxIter, "iters", "i", bp.DefaultMaxIter, "max number of belief propagation iterations")
	toolsAWGNCmd.Flags().Uint64Var(&awgn.Seed, "seed", 1, "seed of the random messages and noise")
	toolsAWGNCmd.Flags().StringVarP(&awgn.Config, "config", "f", "", "a YAML file with snrs, trials, threads, maxIter and seed; replaces the other flags")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().BoolVarP(&csv.MessageError, "message", "m", false, "outputs the MessageError instead of CodewordError or ParityError")
	toolsCSVCmd.Flags().BoolVarP(&csv.ParityError, "parity", "p", false, "outputs the ParityError instead of CodewordError or MessageError")
	toolsCSVCmd.Flags().BoolVar(&csv.Iterations, "iterations", false, "outputs the mean belief propagation iterations instead of an error rate")
	toolsCSVCmd.Flags().BoolVar(&csv.Unconverged, "unconverged", false, "outputs the fraction of decodes that ran out of iterations")
	toolsCSVCmd.Flags().BoolVar(&csv.BySNR, "by-snr", false, "writes one row per SNR and one column per results file")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().BoolVarP(&chart.MessageError, "message", "m", false, "charts the MessageError instead of CodewordError or ParityError")
	toolsChartCmd.Flags().BoolVarP(&chart.ParityError, "parity", "p", false, "charts the ParityError instead of CodewordError or MessageError")
	toolsChartCmd.Flags().BoolVarP(&chart.LogScale, "log", "l", false, "use a log scale for the error rate")
}
