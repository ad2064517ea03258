// Package pipeline loads a titles table, adds sentiment columns for its
// description, and writes the CSV, spreadsheet and optional extra outputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/vbauerster/mpb"
	"github.com/willbeason/title-sentiment/pkg/logger"
	"github.com/willbeason/title-sentiment/pkg/sentiment"
	"github.com/willbeason/title-sentiment/pkg/spreadsheet"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"strings"
)

var (
	ErrPipeline               = errors.New("scoring titles")
	ErrSpreadsheetUnavailable = errors.New("spreadsheet writer unavailable")
)

const (
	tableComment               = "Titles with sentiment scores derived from their description"
	spreadsheetRemediationHint = "rerun without --no-xlsx to produce the colour-coded workbook"
)

// Config holds every path and setting of one run.
type Config struct {
	InputPath             string
	OutputTablePath       string
	OutputSpreadsheetPath string
	Encoding              string

	TextColumn string
	SheetName  string
	Workers    int

	// ParquetPath and SummaryPath are optional outputs; empty skips them.
	ParquetPath string
	SummaryPath string
}

// DefaultConfig returns a Config with every setting except paths filled in.
func DefaultConfig() Config {
	return Config{
		Encoding:   tables.DefaultEncoding,
		TextColumn: sentiment.DefaultTextColumn,
		SheetName:  spreadsheet.DefaultSheetName,
		Workers:    1,
	}
}

// SpreadsheetWriter writes t to path with the category column formatted.
type SpreadsheetWriter interface {
	Write(path string, t *tables.Table, sheet, categoryColumn string) error
}

// SpreadsheetWriterFunc adapts a function such as spreadsheet.Write.
type SpreadsheetWriterFunc func(path string, t *tables.Table, sheet, categoryColumn string) error

func (f SpreadsheetWriterFunc) Write(path string, t *tables.Table, sheet, categoryColumn string) error {
	return f(path, t, sheet, categoryColumn)
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Scorer sentiment.Scorer
	// Spreadsheet writes the formatted workbook. When nil the workbook is
	// skipped and the CSV output is unaffected.
	Spreadsheet SpreadsheetWriter
	// Progress, when set, shows scoring progress.
	Progress *mpb.Progress
	RunID    uuid.UUID
}

// Result summarises a completed run.
type Result struct {
	Rows     int
	Columns  sentiment.Columns
	Pruned   []string
	Replaced []string
	// Table is the final table every output was written from.
	Table *tables.Table
	// Skipped maps optional outputs that failed or were unavailable to the
	// reason. Their failure does not fail the run.
	Skipped map[string]error
}

// Run executes every stage in order. Failing to read the input or to write
// the CSV output returns an error, as does a missing category column when
// formatting the workbook. Other workbook, Parquet and summary failures are
// logged and recorded in Result.Skipped.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	log := logger.FromContext(ctx)

	table, err := tables.ReadCSVFile(cfg.InputPath, tables.ReadOptions{Encoding: cfg.Encoding})
	if err != nil {
		return nil, fmt.Errorf("%w: loading %q: %w", ErrPipeline, cfg.InputPath, err)
	}
	log.Info().Str("path", cfg.InputPath).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns)).
		Msg("loaded input")

	err = table.FillNull(cfg.TextColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	log.Info().Str("column", cfg.TextColumn).Msg("filled missing text")

	derived, err := sentiment.Derive(ctx, table, cfg.TextColumn, p.Scorer, sentiment.Options{
		Workers:  cfg.Workers,
		Progress: p.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	for _, name := range derived.Replaced {
		log.Warn().Str("column", name).Msg("overwrote existing column")
	}
	for _, name := range derived.Columns.Names() {
		log.Info().Str("column", name).Msg("calculated column")
	}

	keep := append([]string{cfg.TextColumn}, derived.Columns.Names()...)
	pruned := table.DropMatching(sentiment.StaleColumnMarkers, keep...)
	if len(pruned) > 0 {
		log.Info().Str("columns", strings.Join(pruned, ", ")).Msg("removed stale rating sentiment columns")
	}

	result := &Result{
		Rows:     table.Len(),
		Columns:  derived.Columns,
		Pruned:   pruned,
		Replaced: derived.Replaced,
		Table:    table,
		Skipped:  make(map[string]error),
	}

	err = tables.WriteCSVFile(cfg.OutputTablePath, table)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	log.Info().Str("path", cfg.OutputTablePath).Msg("saved table")

	if cfg.ParquetPath != "" {
		err = tables.WriteParquetFile(cfg.ParquetPath, table, p.schemaOptions(derived.Columns))
		p.report(ctx, result, cfg.ParquetPath, "saved parquet", err)
	}

	if cfg.SummaryPath != "" {
		err = WriteSummaryFile(cfg.SummaryPath, table, derived.Columns)
		p.report(ctx, result, cfg.SummaryPath, "saved summary", err)
	}

	if cfg.OutputSpreadsheetPath == "" {
		return result, nil
	}
	if p.Spreadsheet == nil {
		result.Skipped[cfg.OutputSpreadsheetPath] = ErrSpreadsheetUnavailable
		log.Warn().Err(ErrSpreadsheetUnavailable).
			Str("path", cfg.OutputSpreadsheetPath).
			Str("hint", spreadsheetRemediationHint).
			Msg("skipped spreadsheet")
		return result, nil
	}

	err = p.Spreadsheet.Write(cfg.OutputSpreadsheetPath, table, cfg.SheetName, derived.Columns.Category)
	if errors.Is(err, spreadsheet.ErrMissingColumn) {
		return result, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	p.report(ctx, result, cfg.OutputSpreadsheetPath, "saved spreadsheet", err)

	return result, nil
}

func (p *Pipeline) report(ctx context.Context, result *Result, path, msg string, err error) {
	log := logger.FromContext(ctx)
	if err != nil {
		result.Skipped[path] = err
		log.Error().Err(err).Str("path", path).Msg("output not written")
		return
	}
	log.Info().Str("path", path).Msg(msg)
}

func (p *Pipeline) schemaOptions(columns sentiment.Columns) tables.SchemaOptions {
	opts := tables.SchemaOptions{
		Comment: tableComment,
		ColumnComments: map[string]string{
			columns.Polarity:   "Sentiment polarity of the text, from -1.0 (negative) to 1.0 (positive)",
			columns.Category:   "Sign of the polarity: 1 positive, -1 negative, 0 neutral",
			columns.Percentage: "Polarity mapped onto 0 to 100, where 50 is neutral",
		},
	}
	if p.RunID != uuid.Nil {
		opts.RunID = p.RunID.String()
	}
	return opts
}
