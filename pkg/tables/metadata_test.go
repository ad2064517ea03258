package tables

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFieldMetadata(t *testing.T) {
	md := fieldMetadata("IMDb rating")
	assert.Equal(t, []string{comment}, md.Keys())
	assert.Equal(t, []string{"IMDb rating"}, md.Values())
}

func TestSchemaMetadata(t *testing.T) {
	tcs := []struct {
		name       string
		opts       SchemaOptions
		wantKeys   []string
		wantValues []string
	}{
		{
			name: "empty",
		},
		{
			name:       "comment only",
			opts:       SchemaOptions{Comment: "titles"},
			wantKeys:   []string{comment},
			wantValues: []string{"titles"},
		},
		{
			name:       "run only",
			opts:       SchemaOptions{RunID: "run-1"},
			wantKeys:   []string{runID},
			wantValues: []string{"run-1"},
		},
		{
			name:       "both",
			opts:       SchemaOptions{Comment: "titles", RunID: "run-1"},
			wantKeys:   []string{comment, runID},
			wantValues: []string{"titles", "run-1"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			md := schemaMetadata(tc.opts)
			assert.Equal(t, len(tc.wantKeys), md.Len())
			for i, key := range tc.wantKeys {
				assert.Equal(t, i, md.FindKey(key))
				assert.Equal(t, tc.wantValues[i], md.Values()[i])
			}
		})
	}
}
