package tables

import "github.com/apache/arrow/go/v18/arrow"

// Metadata keys written to Parquet output. Viewers display comment; run_id
// matches the run_id field of the log lines of the run that wrote the file.
const (
	comment = "comment"
	runID   = "run_id"
)

// fieldMetadata describes a single column.
func fieldMetadata(description string) arrow.Metadata {
	return arrow.NewMetadata([]string{comment}, []string{description})
}

// schemaMetadata describes the whole table. Options left empty are omitted
// rather than written as empty strings.
func schemaMetadata(opts SchemaOptions) *arrow.Metadata {
	pairs := []struct{ key, value string }{
		{comment, opts.Comment},
		{runID, opts.RunID},
	}

	var keys, values []string
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		keys = append(keys, p.key)
		values = append(values, p.value)
	}

	md := arrow.NewMetadata(keys, values)
	return &md
}
