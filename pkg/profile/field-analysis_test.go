package profile

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tcs := []struct {
		in       string
		want     float64
		integral bool
		ok       bool
	}{
		{in: "42", want: 42, integral: true, ok: true},
		{in: " -7 ", want: -7, integral: true, ok: true},
		{in: "8.5", want: 8.5, ok: true},
		{in: "1e3", want: 1000, ok: true},
		{in: ""},
		{in: "NaN"},
		{in: "Inf"},
		{in: "0x1p-2"},
		{in: "tt0111161"},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			got, integral, ok := ParseNumber(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.integral, integral)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProfile_Kinds(t *testing.T) {
	tcs := []struct {
		name   string
		values []string
		nulls  []bool
		want   Kind
	}{
		{name: "no rows", want: KindEmpty},
		{name: "all null", values: []string{"", ""}, nulls: []bool{true, true}, want: KindEmpty},
		{name: "integers", values: []string{"1994", "2008"}, want: KindInteger},
		{name: "integers then float", values: []string{"1", "8.5"}, want: KindFloat},
		{name: "numbers then text", values: []string{"1", "PG-13"}, want: KindString},
		{name: "text", values: []string{"Drama"}, want: KindString},
		{
			name:   "nulls before numbers",
			values: []string{"", "9.3"},
			nulls:  []bool{true, false},
			want:   KindFloat,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Profile(tc.values, tc.nulls).Kind())
		})
	}
}

func TestNumberField_String(t *testing.T) {
	f := Profile([]string{"3", "", "-2", "3"}, []bool{false, true, false, false})
	assert.Equal(t, "int8;-2;3;nulls:1;-2:1;3:2", f.String())

	f = Profile([]string{"300", "70000"}, nil)
	assert.Equal(t, "uint32;300;70000;nulls:0;300:1;70000:1", f.String())
}

func TestStringField_Enum(t *testing.T) {
	f := Profile([]string{"Drama", "Crime", "Drama"}, nil)
	assert.Equal(t, "enum;2;nulls:0;Crime:1;Drama:2", f.String())

	values := make([]string, MaxEnum+5)
	for i := range values {
		values[i] = fmt.Sprintf("title %d", i)
	}
	f = Profile(values, nil)
	assert.Equal(t, fmt.Sprintf("string;%d;nulls:0", len(values)), f.String())
}

func TestStringField_DegradedFromNumbers(t *testing.T) {
	f := Profile([]string{"1", "2", "unrated"}, nil)
	assert.Equal(t, KindString, f.Kind())
	assert.Equal(t, "string;3;nulls:0", f.String())
}
