package awgn

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nathanhack/ldpcbp/benchmarking"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/nathanhack/ldpcbp/linearblock"
	"github.com/nathanhack/ldpcbp/linearblock/repetition"
	mat "github.com/nathanhack/sparsemat"
	"github.com/stretchr/testify/require"
)

func TestRunSimulation(t *testing.T) {
	code, err := repetition.New(5)
	require.NoError(t, err)

	data := &tools.SimulationStats{
		TypeInfo: TypeInfo(),
		ECCInfo:  tools.Md5Sum(code.H),
		Stats:    map[float64]benchmarking.Stats{},
	}
	config := benchmarking.Config{SNRs: []float64{0, 20}, Trials: 25, Threads: 2, MaxIter: 20, Seed: 3}
	output := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, RunSimulation(context.Background(), data, code, config, output, false))
	require.Len(t, data.Stats, 2)
	for _, snr := range config.SNRs {
		require.Equal(t, config.Trials, data.Stats[snr].ChannelCodewordError.Count)
	}
	// 20dB never fails on a length 5 repetition code
	require.Equal(t, 0.0, data.Stats[20].ChannelCodewordError.Mean)
	require.Equal(t, 0, data.Stats[20].Unconverged)

	// a checkpoint was written along the way
	saved, err := tools.LoadResults(output)
	require.NoError(t, err)
	require.NotNil(t, saved)

	// running again with the same trials has nothing left to do
	before := data.Stats[0]
	require.NoError(t, RunSimulation(context.Background(), data, code, config, "", false))
	require.Equal(t, before, data.Stats[0])
}

func TestRunAWGN_Reproducible(t *testing.T) {
	code, err := repetition.New(3)
	require.NoError(t, err)
	decoder, err := code.Decoder()
	require.NoError(t, err)

	a := RunAWGN(context.Background(), code, decoder, -2, 50, 1, 20, 7, benchmarking.Stats{}, nil, false)
	b := RunAWGN(context.Background(), code, decoder, -2, 50, 4, 20, 7, benchmarking.Stats{}, nil, false)
	require.Equal(t, a.ChannelCodewordError.Count, b.ChannelCodewordError.Count)
	require.InDelta(t, a.ChannelCodewordError.Mean, b.ChannelCodewordError.Mean, 1e-9)
}

func TestRunAWGN_NoGenerator(t *testing.T) {
	H := mat.CSRMat(2, 4,
		1, 1, 1, 0,
		0, 1, 1, 1,
	)
	code := &linearblock.Code{H: H}
	decoder, err := code.Decoder()
	require.NoError(t, err)

	stats := RunAWGN(context.Background(), code, decoder, 20, 10, 1, 20, 1, benchmarking.Stats{}, nil, false)
	require.Equal(t, 10, stats.ChannelCodewordError.Count)
	require.Equal(t, 0.0, stats.ChannelCodewordError.Mean)
}
