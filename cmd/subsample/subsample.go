package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	FlagPartitions = "partitions"
	FlagSeed       = "seed"
	FlagEncoding   = "encoding"
)

func init() {
	cmd.Flags().Float64Slice(FlagPartitions, []float64{0.01, 0.05}, "dataset partitions")
	cmd.Flags().Int64(FlagSeed, 0, "random seed")
	cmd.Flags().String(FlagEncoding, tables.DefaultEncoding, "IANA name of the input and output character encoding")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "subsample IN_CSV OUT_DIR",
	Short:   "subsamples a titles table into disjoint random partitions",
	Args:    cobra.ExactArgs(2),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	outDir := args[1]

	err := os.MkdirAll(outDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	partitions, err := cmd.Flags().GetFloat64Slice(FlagPartitions)
	if err != nil {
		return fmt.Errorf("getting partitions: %w", err)
	}
	thresholds, err := getThresholds(partitions)
	if err != nil {
		return err
	}

	seed, err := getSeed(cmd)
	if err != nil {
		return fmt.Errorf("getting seed: %w", err)
	}

	encoding, err := cmd.Flags().GetString(FlagEncoding)
	if err != nil {
		return err
	}

	table, err := tables.ReadCSVFile(inPath, tables.ReadOptions{Encoding: encoding})
	if err != nil {
		return fmt.Errorf("reading titles: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	rowPartitions := partition(rng, table.Len(), thresholds)

	for i, rows := range rowPartitions {
		outPath := partitionPath(outDir, inPath, i)
		err = tables.WriteCSVFileEncoded(outPath, table.Subset(rows), encoding)
		if err != nil {
			return fmt.Errorf("writing partition %d: %w", i, err)
		}
		fmt.Printf("%s: %d\n", outPath, len(rows))
	}

	return nil
}

// getThresholds returns the running sums of partitions. Each partition is the
// fraction of rows it should receive; together they may not exceed 1.
func getThresholds(partitions []float64) ([]float64, error) {
	thresholds := make([]float64, len(partitions))
	sum := 0.0
	for i, partition := range partitions {
		if partition < 0 {
			return nil, fmt.Errorf("partition %d is negative: %f", i, partition)
		}
		sum += partition
		thresholds[i] = sum
	}
	if sum > 1 {
		return nil, fmt.Errorf("partitions sum to %f, more than 1", sum)
	}
	return thresholds, nil
}

// partition assigns each of n rows to at most one partition. A row is placed
// in the first partition whose threshold exceeds its random draw; rows drawn
// past the last threshold are left out. Rows keep their input order.
func partition(rng *rand.Rand, n int, thresholds []float64) [][]int {
	result := make([][]int, len(thresholds))
	for row := range n {
		randValue := rng.Float64()
		for j, threshold := range thresholds {
			if randValue < threshold {
				result[j] = append(result[j], row)
				break
			}
		}
	}
	return result
}

func partitionPath(outDir, inPath string, i int) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(outDir, fmt.Sprintf("%s_%d%s", base, i, tables.CSVExt))
}

func getSeed(cmd *cobra.Command) (int64, error) {
	// Check if the user set the seed manually.
	seedSet := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == FlagSeed {
			seedSet = true
		}
	})

	if seedSet {
		// User-provided seed.
		seed, err := cmd.Flags().GetInt64(FlagSeed)
		if err != nil {
			return 0, err
		}
		return seed, nil
	} else {
		// Use time as seed.
		return time.Now().UnixNano(), nil
	}
}
