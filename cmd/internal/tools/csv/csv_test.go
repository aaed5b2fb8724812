package csv

import (
	"bytes"
	"testing"

	"github.com/nathanhack/ldpcbp/benchmarking"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/stretchr/testify/require"
)

func results() ([]string, []*tools.SimulationStats) {
	low := benchmarking.Stats{}
	low.ChannelCodewordError.Update(0.5)
	high := benchmarking.Stats{}
	high.ChannelCodewordError.Update(0.125)

	return []string{"hamming", "repetition"}, []*tools.SimulationStats{
		{Stats: map[float64]benchmarking.Stats{0: low, 2: high}},
		{Stats: map[float64]benchmarking.Stats{2: high}},
	}
}

func TestWrite(t *testing.T) {
	names, stats := results()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, names, stats, tools.CodewordError))
	require.Equal(t, "Codeword Error Rate,0,2\nhamming,0.5,0.125\nrepetition,,0.125\n", buf.String())
}

func TestWriteBySNR(t *testing.T) {
	names, stats := results()
	var buf bytes.Buffer
	require.NoError(t, WriteBySNR(&buf, names, stats, tools.CodewordError))
	require.Equal(t, "SNR (dB),hamming,repetition\n0,0.5,\n2,0.125,0.125\n", buf.String())
}
