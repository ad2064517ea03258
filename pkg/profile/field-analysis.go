package profile

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// MaxEnum is the largest number of unique values to track before not trying to
// interpret the column as an enum.
const MaxEnum = 20

// Kind is the narrowest type that can hold every non-null value of a column.
type Kind int

const (
	KindEmpty Kind = iota
	KindInteger
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field accumulates the cells of one delimited-text column.
// Adding a value the current Field cannot represent returns a wider Field, so
// callers must always keep the returned value.
type Field interface {
	Add(value string, null bool) Field
	Kind() Kind
	String() string
}

// Profile runs every cell of a column through a Field and returns the result.
func Profile(values []string, nulls []bool) Field {
	var f Field = &EmptyField{}
	for i, v := range values {
		f = f.Add(v, nulls != nil && nulls[i])
	}
	return f
}

// EmptyField represents a column which has only held nulls so far.
type EmptyField struct {
	Nulls int
}

func (nf *EmptyField) Add(value string, null bool) Field {
	if null {
		nf.Nulls++
		return nf
	}

	if n, integral, ok := ParseNumber(value); ok {
		f := &NumberField{
			Nulls: nf.Nulls,
			Seen:  make(map[float64]int),
		}
		return f.add(n, integral)
	}

	f := &StringField{
		Nulls: nf.Nulls,
		Seen:  make(map[string]int),
	}
	return f.Add(value, false)
}

func (nf *EmptyField) Kind() Kind {
	return KindEmpty
}

func (nf *EmptyField) String() string {
	return fmt.Sprintf("empty;nulls:%d", nf.Nulls)
}

// A NumberField only holds values that parse as finite decimal numbers.
type NumberField struct {
	// Integral tracks if all values of this column are integers.
	Integral bool

	// Min and Max allow determining the smallest integer type which can hold
	// all seen values.
	Min, Max float64

	Count int
	Nulls int

	// Seen tracks the unique numbers in the column.
	// Stops collecting values after it contains more than MaxEnum entries.
	Seen map[float64]int
}

func (f *NumberField) Add(value string, null bool) Field {
	if null {
		f.Nulls++
		return f
	}

	n, integral, ok := ParseNumber(value)
	if !ok {
		// Mixed columns degrade to strings; the numbers seen so far are only
		// kept as a count.
		return &StringField{
			Count: f.Count + 1,
			Nulls: f.Nulls,
		}
	}
	return f.add(n, integral)
}

func (f *NumberField) add(n float64, integral bool) Field {
	if f.Count > 0 {
		f.Integral = f.Integral && integral
		if n < f.Min {
			f.Min = n
		} else if n > f.Max {
			f.Max = n
		}
	} else {
		f.Integral = integral
		f.Min = n
		f.Max = n
	}
	f.Count++

	if len(f.Seen) <= MaxEnum {
		f.Seen[n]++
	}
	return f
}

func (f *NumberField) Kind() Kind {
	if f.Integral {
		return KindInteger
	}
	return KindFloat
}

func (f *NumberField) String() string {
	result := strings.Builder{}
	if f.Integral {
		if f.Min < 0 {
			if f.Min >= math.MinInt8 && f.Max <= math.MaxInt8 {
				result.WriteString("int8")
			} else if f.Min >= math.MinInt16 && f.Max <= math.MaxInt16 {
				result.WriteString("int16")
			} else if f.Min >= math.MinInt32 && f.Max <= math.MaxInt32 {
				result.WriteString("int32")
			} else {
				result.WriteString("int64")
			}
		} else {
			if f.Max <= math.MaxUint8 {
				result.WriteString("uint8")
			} else if f.Max <= math.MaxUint16 {
				result.WriteString("uint16")
			} else if f.Max <= math.MaxUint32 {
				result.WriteString("uint32")
			} else {
				result.WriteString("uint64")
			}
		}
		result.WriteString(fmt.Sprintf(";%d;%d", int64(f.Min), int64(f.Max)))
	} else {
		result.WriteString(fmt.Sprintf("float64;%f;%f", f.Min, f.Max))
	}
	result.WriteString(fmt.Sprintf(";nulls:%d", f.Nulls))

	if len(f.Seen) <= MaxEnum {
		for _, k := range sortedKeys(f.Seen) {
			if f.Integral {
				result.WriteString(fmt.Sprintf(";%d:%d", int64(k), f.Seen[k]))
			} else {
				result.WriteString(fmt.Sprintf(";%f:%d", k, f.Seen[k]))
			}
		}
	}

	return result.String()
}

// A StringField holds arbitrary text.
type StringField struct {
	Count int
	Nulls int

	// Seen attempts to determine if the column is actually an enum with a small
	// number of unique values. Nil once the column is known not to be one.
	Seen map[string]int
}

func (f *StringField) Add(value string, null bool) Field {
	if null {
		f.Nulls++
		return f
	}

	f.Count++
	if f.Seen != nil && len(f.Seen) <= MaxEnum {
		f.Seen[value]++
	}
	return f
}

func (f *StringField) Kind() Kind {
	return KindString
}

func (f *StringField) String() string {
	result := strings.Builder{}
	if f.Seen != nil && len(f.Seen) <= MaxEnum {
		result.WriteString(fmt.Sprintf("enum;%d;nulls:%d", len(f.Seen), f.Nulls))
		for _, k := range sortedKeys(f.Seen) {
			result.WriteString(fmt.Sprintf(";%s:%d", k, f.Seen[k]))
		}
	} else {
		result.WriteString(fmt.Sprintf("string;%d;nulls:%d", f.Count, f.Nulls))
	}

	return result.String()
}

// ParseNumber reports whether s is a finite decimal number and whether it is
// written as an integer.
func ParseNumber(s string) (float64, bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true, true
	}

	// ParseFloat also accepts "NaN", "Inf" and hexadecimal mantissas, none of
	// which a table loader should read as numbers.
	if strings.ContainsAny(s, "xXnN") {
		return 0, false, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false, false
	}
	return n, false, true
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
