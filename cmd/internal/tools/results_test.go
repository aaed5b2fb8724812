package tools

import (
	"path/filepath"
	"testing"

	"github.com/nathanhack/ldpcbp/benchmarking"
	"github.com/stretchr/testify/require"
)

func TestMetric_Value(t *testing.T) {
	s := benchmarking.Stats{Unconverged: 1}
	s.ChannelCodewordError.Update(0.5)
	s.ChannelCodewordError.Update(0)
	s.ChannelMessageError.Update(0.25)
	s.ChannelParityError.Update(0.75)
	s.Iterations.Update(4)

	require.Equal(t, 0.25, CodewordError.Value(s))
	require.Equal(t, 0.25, MessageError.Value(s))
	require.Equal(t, 0.75, ParityError.Value(s))
	require.Equal(t, 4.0, Iterations.Value(s))
	require.Equal(t, 0.5, Unconverged.Value(s))
	require.Equal(t, 0.0, Unconverged.Value(benchmarking.Stats{}))
}

func TestSNRs(t *testing.T) {
	stats := []*SimulationStats{
		{Stats: map[float64]benchmarking.Stats{3: {}, -1: {}}},
		{Stats: map[float64]benchmarking.Stats{0.5: {}, 3: {}}},
	}
	require.Equal(t, []float64{-1, 0.5, 3}, SNRs(stats))
}

func TestLoadAllResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	require.NoError(t, SaveResults(path, &SimulationStats{Stats: map[float64]benchmarking.Stats{1: {}}}))

	stats, err := LoadAllResults([]string{path})
	require.NoError(t, err)
	require.Len(t, stats, 1)

	_, err = LoadAllResults([]string{path, filepath.Join(dir, "missing.json")})
	require.Error(t, err)

	_, err = LoadAllResults(nil)
	require.Error(t, err)

	require.Equal(t, "a", ResultName(path))
}
