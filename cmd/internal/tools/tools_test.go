package tools

import (
	"path/filepath"
	"testing"

	"github.com/nathanhack/ldpcbp/benchmarking"
	"github.com/nathanhack/ldpcbp/linearblock/hamming"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadCode(t *testing.T) {
	code, err := hamming.New(3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hamming.json")
	require.NoError(t, SaveCode(path, code))

	loaded, err := LoadCode(path)
	require.NoError(t, err)
	require.True(t, loaded.H.Equals(code.H))
	require.True(t, loaded.TG.Equals(code.TG))
	require.Equal(t, Md5Sum(code.H), Md5Sum(loaded.H))

	_, err = LoadCode(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestSaveLoadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	missing, err := LoadResults(path)
	require.NoError(t, err)
	require.Nil(t, missing)

	stats := benchmarking.Stats{Unconverged: 2}
	stats.ChannelCodewordError.Update(0.25)
	stats.ChannelCodewordError.Update(0.75)

	data := &SimulationStats{
		TypeInfo: "type",
		ECCInfo:  "ecc",
		Stats:    map[float64]benchmarking.Stats{-1.5: stats, 3: {}},
	}
	require.NoError(t, SaveResults(path, data))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	require.Equal(t, data.TypeInfo, loaded.TypeInfo)
	require.Equal(t, data.ECCInfo, loaded.ECCInfo)
	require.Len(t, loaded.Stats, 2)
	require.Equal(t, 2, loaded.Stats[-1.5].Unconverged)
	require.Equal(t, 2, loaded.Stats[-1.5].ChannelCodewordError.Count)
	require.InDelta(t, 0.5, loaded.Stats[-1.5].ChannelCodewordError.Mean, 1e-12)
}
