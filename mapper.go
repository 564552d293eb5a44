package xlsxstream

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MappingResult is the outcome of mapping one FieldMap onto a record shape:
// the populated record, the leftover columns no field claimed (values
// verbatim, including nil), and the human-readable warnings accumulated for
// fields that failed coercion or were ignored.
type MappingResult[T any] struct {
	Record   T
	Leftover map[string]*string
	Warnings []string
}

// binding is one precomputed header-to-field rule. Everything that needs
// reflection over the shape is resolved at build time; applying a binding
// per row only sets field values through cached index paths.
type binding struct {
	header     string       // matched column header, also used for warning attribution
	index      []int        // struct field index path
	kind       fieldKind    // classification of the dereferenced type
	elem       reflect.Type // slice element type, kindSlice only
	typ        reflect.Type // dereferenced field type
	ptr        bool         // field is a pointer to typ
	timeFormat string       // custom layout from the `fmt` tag
}

// Mapper converts FieldMaps into records of type T. Building one is the
// expensive step (shape reflection, binding table construction) and is done
// once per (shape, header set) pair; Map itself is cheap and reusable.
// A Mapper is immutable after construction and safe for concurrent use.
type Mapper[T any] struct {
	bindings []binding
	leftover []string // headers with no matching field
	validate *validator.Validate
}

// splitAndTrim splits a comma-separated string and trims each part.
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildMapper builds the reusable mapping function for record shape T and
// the given column headers. Fields match headers case-insensitively by name,
// or by the names in an `excel:"..."` tag when present; the first matching
// header wins. Fields tagged `excel:"-"` are skipped. Headers claimed by no
// field end up in each result's Leftover map.
func BuildMapper[T any](headers []string, opts ...Option) (*Mapper[T], error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("xlsxstream: type %s is not a struct", t.String())
	}

	m := &Mapper[T]{validate: o.GoValidator}
	claimed := make(map[string]bool, len(headers))

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get("excel")
		if tag == "-" {
			continue
		}
		matchNames := splitAndTrim(tag)
		if len(matchNames) == 0 {
			matchNames = []string{f.Name}
		}

		header, ok := matchHeader(headers, matchNames)
		if !ok {
			// No column for this field: silent shape default.
			continue
		}
		claimed[strings.ToLower(header)] = true

		ft := f.Type
		ptr := ft.Kind() == reflect.Ptr
		if ptr {
			ft = ft.Elem()
		}
		kind, elem := classify(ft)
		m.bindings = append(m.bindings, binding{
			header:     header,
			index:      f.Index,
			kind:       kind,
			elem:       elem,
			typ:        ft,
			ptr:        ptr,
			timeFormat: f.Tag.Get("fmt"),
		})
	}

	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if claimed[strings.ToLower(h)] || seen[h] {
			continue
		}
		seen[h] = true
		m.leftover = append(m.leftover, h)
	}
	return m, nil
}

// matchHeader returns the first header matching any of the candidate names,
// case-insensitively.
func matchHeader(headers []string, names []string) (string, bool) {
	for _, h := range headers {
		for _, name := range names {
			if strings.EqualFold(h, name) {
				return h, true
			}
		}
	}
	return "", false
}

// Map applies the precomputed binding table to one row's FieldMap. It never
// fails: uncoercible values leave their field at the shape default and are
// reported in Warnings instead.
func (m *Mapper[T]) Map(fm FieldMap) MappingResult[T] {
	var rec T
	rv := reflect.ValueOf(&rec).Elem()

	var warnings []string
	for i := range m.bindings {
		warnings = m.bindings[i].apply(rv, fm[m.bindings[i].header], warnings)
	}

	leftover := make(map[string]*string, len(m.leftover))
	for _, h := range m.leftover {
		if val, ok := fm[h]; ok {
			leftover[h] = val
		}
	}

	if m.validate != nil {
		warnings = appendValidationWarnings(warnings, m.validate, rec)
	}

	return MappingResult[T]{Record: rec, Leftover: leftover, Warnings: warnings}
}

// apply sets one field from its column's raw value, appending a warning when
// the value cannot be coerced or the field cannot be populated at all.
func (b *binding) apply(rv reflect.Value, raw *string, warnings []string) []string {
	field := rv.FieldByIndex(b.index)

	switch b.kind {
	case kindString:
		if raw == nil {
			return warnings
		}
		trim := strings.TrimSpace(*raw)
		if b.ptr {
			if trim == "" {
				return warnings
			}
			elem := reflect.New(b.typ).Elem()
			elem.SetString(trim)
			field.Set(elem.Addr())
		} else {
			field.SetString(trim)
		}
		return warnings

	case kindScalar:
		if raw == nil || strings.TrimSpace(*raw) == "" {
			return warnings
		}
		target := field
		if b.ptr {
			target = reflect.New(b.typ).Elem()
		}
		if err := setScalar(target, *raw, b.timeFormat); err != nil {
			return append(warnings, fmt.Sprintf("%s: cannot parse value '%s' to type %s",
				b.header, strings.TrimSpace(*raw), b.typ))
		}
		if b.ptr {
			field.Set(target.Addr())
		}
		return warnings

	case kindSlice:
		if b.ptr {
			if raw == nil || strings.TrimSpace(*raw) == "" {
				return warnings
			}
			elem := reflect.New(b.typ).Elem()
			var set bool
			set, warnings = b.setList(elem, raw, warnings)
			if set {
				field.Set(elem.Addr())
			}
			return warnings
		}
		_, warnings = b.setList(field, raw, warnings)
		return warnings

	case kindStruct:
		// Nested object properties are never populated from a column.
		if raw != nil && strings.TrimSpace(*raw) != "" {
			return append(warnings, fmt.Sprintf("%s: ignored nested object property of type %s",
				b.header, b.typ))
		}
		return warnings

	default:
		return append(warnings, fmt.Sprintf("%s: type %s is unsupported", b.header, b.typ))
	}
}

// setList coerces a comma-separated source value into a scalar slice. Empty
// or all-whitespace source (including an absent cell) yields an empty,
// non-nil slice. An element that fails to parse leaves the whole field at
// its default and records one warning, like any other coercion failure.
// Reports whether the field was actually set.
func (b *binding) setList(field reflect.Value, raw *string, warnings []string) (bool, []string) {
	src := ""
	if raw != nil {
		src = *raw
	}
	if strings.TrimSpace(src) == "" {
		field.Set(reflect.MakeSlice(b.typ, 0, 0))
		return true, warnings
	}
	parts := strings.Split(src, ",")
	out := reflect.MakeSlice(b.typ, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		ev := reflect.New(b.elem).Elem()
		if err := setScalar(ev, p, b.timeFormat); err != nil {
			return false, append(warnings, fmt.Sprintf("%s: cannot parse value '%s' to type %s",
				b.header, p, b.elem))
		}
		out = reflect.Append(out, ev)
	}
	field.Set(out)
	return true, warnings
}

// appendValidationWarnings runs struct validation and converts every failed
// constraint into a warning on the row.
func appendValidationWarnings(warnings []string, v *validator.Validate, rec any) []string {
	err := v.Struct(rec)
	if err == nil {
		return warnings
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			warnings = append(warnings, fmt.Sprintf("%s: failed validation '%s'", fe.Field(), fe.Tag()))
		}
		return warnings
	}
	return append(warnings, fmt.Sprintf("record validation error: %v", err))
}
