package field

import (
	"fmt"
	"math"
	"strings"

	"dsdl-go/internal/errdefs"
)

func invalid(kind, format string, args ...any) *errdefs.ValidationError {
	return errdefs.Invalidf("", kind, format, args...)
}

// AtPath attributes a validation error to a canonical path. A relative
// path already on the error (set by list elements) is appended. Other
// errors are returned unchanged.
func AtPath(err error, path string) error {
	ve, ok := err.(*errdefs.ValidationError)
	if !ok || strings.HasPrefix(ve.Path, "./") {
		return err
	}

	c := *ve
	if c.Path == "" {
		c.Path = path
	} else {
		c.Path = path + "/" + c.Path
	}

	return &c
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, !math.IsNaN(v)
	default:
		return 0, false
	}
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}

		return int64(v), true
	case float32, float64:
		f, _ := toFloat(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}

		return int64(f), true
	default:
		return 0, false
	}
}

func toSeq(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}

		return out, true
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}

		return out, true
	default:
		return nil, false
	}
}

// numbers reads a sequence of exactly n numbers.
func numbers(kind string, raw any, n int) ([]float64, error) {
	seq, ok := toSeq(raw)
	if !ok {
		return nil, invalid(kind, "expected a list of %d numbers, got %s", n, describe(raw))
	}

	if len(seq) != n {
		return nil, invalid(kind, "expected %d numbers, got %d", n, len(seq))
	}

	out := make([]float64, n)

	for i, v := range seq {
		f, ok := toFloat(v)
		if !ok {
			return nil, invalid(kind, "element %d: expected a number, got %s", i, describe(v))
		}

		out[i] = f
	}

	return out, nil
}

func describe(v any) string {
	if v == nil {
		return "null"
	}

	return fmt.Sprintf("%T", v)
}
