package tools

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathanhack/ldpcbp/benchmarking"
)

//Metric selects the column of benchmarking.Stats reported by the results tools.
type Metric int

const (
	CodewordError Metric = iota
	MessageError
	ParityError
	Iterations
	Unconverged
)

func (m Metric) String() string {
	switch m {
	case CodewordError:
		return "Codeword Error Rate"
	case MessageError:
		return "Message Error Rate"
	case ParityError:
		return "Parity Error Rate"
	case Iterations:
		return "Mean Iterations"
	case Unconverged:
		return "Unconverged Rate"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

//Value extracts the metric from s. Unconverged is reported as a fraction of the trials.
func (m Metric) Value(s benchmarking.Stats) float64 {
	switch m {
	case MessageError:
		return s.ChannelMessageError.Mean
	case ParityError:
		return s.ChannelParityError.Mean
	case Iterations:
		return s.Iterations.Mean
	case Unconverged:
		if s.ChannelCodewordError.Count == 0 {
			return 0
		}
		return float64(s.Unconverged) / float64(s.ChannelCodewordError.Count)
	default:
		return s.ChannelCodewordError.Mean
	}
}

//LoadAllResults loads every results file, unlike LoadResults a missing file is an error.
func LoadAllResults(filenames []string) ([]*SimulationStats, error) {
	if len(filenames) < 1 {
		return nil, fmt.Errorf("requires at least one RESULTS_JSON")
	}

	stats := make([]*SimulationStats, len(filenames))
	for i, filename := range filenames {
		s, err := LoadResults(filename)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("results file %v does not exist", filename)
		}
		stats[i] = s
	}
	return stats, nil
}

//SNRs is the sorted union of the SNRs simulated in stats.
func SNRs(stats []*SimulationStats) []float64 {
	seen := make(map[float64]bool)
	snrs := make([]float64, 0)
	for _, s := range stats {
		for snr := range s.Stats {
			if !seen[snr] {
				seen[snr] = true
				snrs = append(snrs, snr)
			}
		}
	}
	sort.Float64s(snrs)
	return snrs
}

//ResultName is the label of a results file, its base name without extension.
func ResultName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
