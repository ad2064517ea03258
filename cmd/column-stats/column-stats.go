package main

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"github.com/willbeason/bondsmith"
	"github.com/willbeason/title-sentiment/pkg/profile"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"golang.org/x/term"
	"io"
	"os"
	"path/filepath"
	"time"
)

const IncEvery = 1 << 10

const (
	FlagEncoding = "encoding"
	FlagOut      = "out"
)

func main() {
	cmd.Flags().String(FlagEncoding, tables.DefaultEncoding, "IANA name of the input character encoding")
	cmd.Flags().String(FlagOut, "", "output file path (default: stdout)")

	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "column-stats FILE",
	Short:   "Collect statistics about the columns of a .csv file",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    runE,
}

var ErrColumnStats = errors.New("getting column statistics")

func runE(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	encoding, err := cmd.Flags().GetString(FlagEncoding)
	if err != nil {
		return err
	}

	var p *mpb.Progress
	if term.IsTerminal(int(os.Stdout.Fd())) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return fmt.Errorf("%w: getting terminal size: %w", ErrColumnStats, err)
		}
		p = mpb.New(mpb.WithWidth(width))
	}

	header, fields, err := processCSVFile(p, inPath, encoding)
	if p != nil {
		p.Wait()
	}
	if err != nil {
		return err
	}

	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return err
	}

	var outFile io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("%w: creating %q: %w", ErrColumnStats, outPath, err)
		}
		defer func() {
			_ = f.Close()
		}()
		outFile = f
	}

	return writeFields(outFile, header, fields)
}

// writeFields prints one "name;statistics" line per column, in header order.
func writeFields(w io.Writer, header []string, fields []profile.Field) error {
	for i, name := range header {
		_, err := fmt.Fprintf(w, "%s;%s\n", name, fields[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func processCSVFile(p *mpb.Progress, inPath, encoding string) ([]string, []profile.Field, error) {
	file, err := os.Open(inPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %q: %w", ErrColumnStats, inPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: getting stat for %q: %w", ErrColumnStats, inPath, err)
	}

	countReader := bondsmith.NewCountReader(file)
	reader, err := tables.NewReader(countReader, tables.ReadOptions{Encoding: encoding})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %q: %w", ErrColumnStats, inPath, err)
	}

	var bar *mpb.Bar
	if p != nil {
		bar = p.AddBar(stat.Size(),
			mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
			mpb.PrependDecorators(decor.Name(filepath.Base(inPath))),
			mpb.BarRemoveOnComplete(),
		)
	}

	start := time.Now()
	fields, err := profileRows(reader, func() int {
		return int(countReader.Count())
	}, func(read int) {
		if bar != nil {
			bar.IncrBy(read, time.Since(start))
		}
	})
	if err != nil {
		if bar != nil {
			p.Abort(bar, true)
		}
		return nil, nil, fmt.Errorf("%w: processing %q: %w", ErrColumnStats, inPath, err)
	}

	return reader.Header(), fields, nil
}

// profileRows runs every row of reader through one Field per column. Every
// IncEvery rows, and once at the end, progress receives the number of bytes
// count has advanced by since the last call.
func profileRows(reader *tables.Reader, count func() int, progress func(read int)) ([]profile.Field, error) {
	fields := make([]profile.Field, len(reader.Header()))
	for i := range fields {
		fields[i] = &profile.EmptyField{}
	}

	i := 0
	lastSeen := 0
	for row, err := range reader.Read() {
		if err != nil {
			return nil, err
		}
		for j, cell := range row {
			fields[j] = fields[j].Add(cell.Text, cell.Null)
		}

		i++
		if i%IncEvery == 0 {
			curProgress := count()
			progress(curProgress - lastSeen)
			lastSeen = curProgress
		}
	}
	progress(count() - lastSeen)

	return fields, nil
}
