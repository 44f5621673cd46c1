// Package validate provides pure input validators for claim payloads.
package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
)

// ErrUnknownStatus is returned for status labels outside the three valid ones.
var ErrUnknownStatus = errors.New("unknown status value")

var statusCodes = map[string]int{
	"DENIED":   0,
	"APPROVED": 1,
	"PENDING":  2,
}

var statusLabels = map[int]string{
	0: "DENIED",
	1: "APPROVED",
	2: "PENDING",
}

// HasNull reports whether any of the values is absent. Typed nil pointers,
// which decoded JSON payloads produce for missing fields, count as absent.
func HasNull(values ...any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			if rv.IsNil() {
				return true
			}
		}
	}
	return false
}

// AllNumeric reports whether every value is convertible to a number.
// A single non-convertible value makes the whole check fail.
func AllNumeric(values ...any) bool {
	for _, v := range values {
		if _, err := Number(v); err != nil {
			return false
		}
	}
	return true
}

// Number converts a decoded JSON value to a float64. Numeric strings are
// accepted, matching the lenient typing of the upstream clients.
func Number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, errors.New("not a number")
	}
}

// IsString reports whether the value is a string.
func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// StatusCode maps a status label to its integer code. The match is exact:
// case and spacing are significant.
func StatusCode(label string) (int, error) {
	code, ok := statusCodes[label]
	if !ok {
		return 0, ErrUnknownStatus
	}
	return code, nil
}

// StatusLabel is the inverse of StatusCode.
func StatusLabel(code int) (string, bool) {
	label, ok := statusLabels[code]
	return label, ok
}
