package xlsxstream

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// fieldKind is the closed classification of a target field's type. Every
// struct field falls into exactly one case; the mapper dispatches on it.
type fieldKind int

const (
	kindUnsupported fieldKind = iota
	kindString                // trimmed, no validation
	kindScalar                // parse-coerced allow-list scalar
	kindSlice                 // comma-separated list of allow-list scalars
	kindStruct                // custom composite, never populated
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// isScalarType reports whether a type is on the coercion allow-list: integers
// of common widths, floats, bool, date/time-with-offset, and UUID.
func isScalarType(t reflect.Type) bool {
	if t == timeType || t == uuidType {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Bool:
		return true
	}
	return false
}

// classify places a (non-pointer) field type into the closed kind
// enumeration. The element type is returned for slices.
func classify(t reflect.Type) (fieldKind, reflect.Type) {
	if t.Kind() == reflect.String {
		return kindString, nil
	}
	if isScalarType(t) {
		return kindScalar, nil
	}
	if t.Kind() == reflect.Slice {
		elem := t.Elem()
		if elem.Kind() == reflect.String || isScalarType(elem) {
			return kindSlice, elem
		}
		return kindUnsupported, nil
	}
	if t.Kind() == reflect.Struct {
		return kindStruct, nil
	}
	return kindUnsupported, nil
}

// parseBool converts common boolean spellings into bool.
func parseBool(raw string) (bool, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool: %q", raw)
}

// parseTime attempts to parse a timestamp from cell text. It tries, in order:
// the field's custom format, RFC3339, several common layouts, and finally a
// spreadsheet serial number.
func parseTime(raw string, customFormat string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}

	if customFormat != "" {
		if t, err := time.Parse(customFormat, s); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	layouts := []string{
		sortableTimeLayout,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02/01/2006",
		"02-01-2006",
		"2006/01/02",
		"02/01/2006 15:04",
		"2006-01-02 15:04",
		"02-01-2006 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return serialToTime(f), nil
	}

	return time.Time{}, fmt.Errorf("cannot parse time: %q", raw)
}

// setScalar parses raw into a settable value of an allow-list scalar type.
func setScalar(field reflect.Value, raw string, timeFormat string) error {
	trim := strings.TrimSpace(raw)

	switch field.Type() {
	case timeType:
		tm, err := parseTime(raw, timeFormat)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(tm))
		return nil
	case uuidType:
		id, err := uuid.Parse(trim)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(id))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(trim)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(trim, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(trim, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(trim, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
		return nil

	case reflect.Bool:
		b, err := parseBool(trim)
		if err != nil {
			return err
		}
		field.SetBool(b)
		return nil
	}

	return fmt.Errorf("unsupported kind %s for value %q", field.Kind(), raw)
}
