package main

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vbauerster/mpb"
	"github.com/willbeason/title-sentiment/pkg/logger"
	"github.com/willbeason/title-sentiment/pkg/pipeline"
	"github.com/willbeason/title-sentiment/pkg/sentiment"
	"github.com/willbeason/title-sentiment/pkg/spreadsheet"
	"golang.org/x/term"
	"os"
	"os/signal"
)

const (
	FlagEncoding     = "encoding"
	FlagTextColumn   = "text-column"
	FlagSheet        = "sheet"
	FlagWorkers      = "workers"
	FlagLexicon      = "lexicon"
	FlagEmojiLexicon = "emoji-lexicon"
	FlagParquet      = "parquet"
	FlagSummary      = "summary"
	FlagNoXLSX       = "no-xlsx"
	FlagLogLevel     = "log-level"
)

func init() {
	addFlags(&cmd)
}

func addFlags(cmd *cobra.Command) {
	defaults := pipeline.DefaultConfig()

	cmd.Flags().String(FlagEncoding, defaults.Encoding, "IANA name of the input character encoding")
	cmd.Flags().String(FlagTextColumn, defaults.TextColumn, "column holding the text to score")
	cmd.Flags().String(FlagSheet, defaults.SheetName, "name of the spreadsheet sheet")
	cmd.Flags().Int(FlagWorkers, defaults.Workers, "number of concurrent scoring workers")
	cmd.Flags().String(FlagLexicon, "", "VADER lexicon file (vader_lexicon.txt)")
	cmd.Flags().String(FlagEmojiLexicon, "", "VADER emoji lexicon file (emoji_utf8_lexicon.txt)")
	cmd.Flags().String(FlagParquet, "", "also write the table to this Parquet file")
	cmd.Flags().String(FlagSummary, "", "also write per-category statistics to this JSONL file")
	cmd.Flags().Bool(FlagNoXLSX, false, "skip the colour-coded spreadsheet")
	cmd.Flags().String(FlagLogLevel, logger.DefaultLevel, "log level")

	// Both lexicons are needed before any input is read.
	_ = cmd.MarkFlagRequired(FlagLexicon)
	_ = cmd.MarkFlagRequired(FlagEmojiLexicon)
	cmd.MarkFlagsRequiredTogether(FlagLexicon, FlagEmojiLexicon)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:          "score-titles IN_CSV OUT_CSV OUT_XLSX",
	Short:        "adds description sentiment columns to a table of titles",
	Args:         cobra.ExactArgs(3),
	Version:      "0.1.0",
	RunE:         runE,
	SilenceUsage: true,
}

// options holds everything runE reads from the command line.
type options struct {
	Config       pipeline.Config
	Lexicon      string
	EmojiLexicon string
	NoXLSX       bool
	LogLevel     string
}

func runE(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	opts, err := optionsFromFlags(flags, args)
	if err != nil {
		return fmt.Errorf("reading flags: %w", err)
	}

	log, err := logger.New(os.Stderr, opts.LogLevel)
	if err != nil {
		return err
	}

	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()
	flags.Visit(func(f *pflag.Flag) {
		log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
	})
	ctx := logger.WithContext(cmd.Context(), log)

	scorer, err := sentiment.NewVader(opts.Lexicon, opts.EmojiLexicon)
	if err != nil {
		log.Error().Err(err).Msg("cannot start scorer")
		return err
	}

	p := &pipeline.Pipeline{
		Scorer: scorer,
		RunID:  runID,
	}
	if !opts.NoXLSX {
		p.Spreadsheet = pipeline.SpreadsheetWriterFunc(spreadsheet.Write)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err == nil {
			p.Progress = mpb.New(mpb.WithWidth(width), mpb.WithContext(ctx))
		}
	}

	_, err = p.Run(ctx, opts.Config)
	if p.Progress != nil {
		p.Progress.Wait()
	}
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		return err
	}

	return nil
}

func optionsFromFlags(flags *pflag.FlagSet, args []string) (options, error) {
	opts := options{Config: pipeline.DefaultConfig()}
	cfg := &opts.Config
	cfg.InputPath = args[0]
	cfg.OutputTablePath = args[1]
	cfg.OutputSpreadsheetPath = args[2]

	var err error
	if cfg.Encoding, err = flags.GetString(FlagEncoding); err != nil {
		return opts, err
	}
	if cfg.TextColumn, err = flags.GetString(FlagTextColumn); err != nil {
		return opts, err
	}
	if cfg.SheetName, err = flags.GetString(FlagSheet); err != nil {
		return opts, err
	}
	if cfg.Workers, err = flags.GetInt(FlagWorkers); err != nil {
		return opts, err
	}
	if cfg.ParquetPath, err = flags.GetString(FlagParquet); err != nil {
		return opts, err
	}
	if cfg.SummaryPath, err = flags.GetString(FlagSummary); err != nil {
		return opts, err
	}
	if opts.Lexicon, err = flags.GetString(FlagLexicon); err != nil {
		return opts, err
	}
	if opts.EmojiLexicon, err = flags.GetString(FlagEmojiLexicon); err != nil {
		return opts, err
	}
	if opts.NoXLSX, err = flags.GetBool(FlagNoXLSX); err != nil {
		return opts, err
	}
	if opts.LogLevel, err = flags.GetString(FlagLogLevel); err != nil {
		return opts, err
	}

	return opts, nil
}
