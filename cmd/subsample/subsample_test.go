package main

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestGetThresholds(t *testing.T) {
	got, err := getThresholds([]float64{0.25, 0.25, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 1.0}, got)

	_, err = getThresholds([]float64{0.75, 0.5})
	assert.Error(t, err)

	_, err = getThresholds([]float64{-0.1})
	assert.Error(t, err)
}

func TestPartition_Disjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 1000

	partitions := partition(rng, n, []float64{0.1, 0.3})
	require.Len(t, partitions, 2)

	seen := make(map[int]bool)
	for _, rows := range partitions {
		assert.True(t, slices.IsSorted(rows), "rows keep input order")
		for _, row := range rows {
			assert.False(t, seen[row], "row %d in two partitions", row)
			seen[row] = true
			assert.Less(t, row, n)
		}
	}

	// Expected sizes are 100 and 200.
	assert.InDelta(t, 100, len(partitions[0]), 50)
	assert.InDelta(t, 200, len(partitions[1]), 60)
}

func TestPartition_Deterministic(t *testing.T) {
	thresholds := []float64{0.5, 1}
	first := partition(rand.New(rand.NewSource(7)), 50, thresholds)
	second := partition(rand.New(rand.NewSource(7)), 50, thresholds)
	assert.Equal(t, first, second)

	// Thresholds summing to 1 place every row.
	assert.Equal(t, 50, len(first[0])+len(first[1]))
}

func TestPartitionPath(t *testing.T) {
	got := partitionPath("out", filepath.Join("data", "titles.csv"), 2)
	assert.Equal(t, filepath.Join("out", "titles_2.csv"), got)
}

func TestRunE_KeepsInputEncoding(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "titles.csv")
	// "Amélie" with é as the single Latin-1 byte 0xE9.
	in := []byte("title\nAm\xe9lie\n")
	require.NoError(t, os.WriteFile(inPath, in, 0o644))

	outDir := filepath.Join(dir, "out")
	cmd.SetArgs([]string{inPath, outDir, "--partitions", "1", "--seed", "1"})
	require.NoError(t, cmd.Execute())

	got, err := os.ReadFile(partitionPath(outDir, inPath, 0))
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
