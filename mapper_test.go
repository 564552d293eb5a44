package xlsxstream

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	Id       string
	IsMember bool
	Age      int
}

func TestMapper_CoercionWarningKeepsDefaults(t *testing.T) {
	m, err := BuildMapper[member]([]string{"Id", "IsMember", "Age"})
	require.NoError(t, err)

	res := m.Map(FieldMap{
		"Id":       strptr("1"),
		"IsMember": strptr("true"),
		"Age":      strptr("thirty"),
	})

	assert.Equal(t, member{Id: "1", IsMember: true, Age: 0}, res.Record)
	assert.Equal(t, []string{"Age: cannot parse value 'thirty' to type int"}, res.Warnings)
	assert.Empty(t, res.Leftover)
}

func TestMapper_RoundTripNoWarnings(t *testing.T) {
	type record struct {
		Name    string
		Count   int64
		Ratio   float64
		Active  bool
		When    time.Time
		Key     uuid.UUID
		Aliases []string
	}
	m, err := BuildMapper[record]([]string{"name", "count", "ratio", "active", "when", "key", "aliases"})
	require.NoError(t, err)

	res := m.Map(FieldMap{
		"name":    strptr("  Ada  "),
		"count":   strptr("42"),
		"ratio":   strptr("2.5"),
		"active":  strptr("yes"),
		"when":    strptr("2025-06-01T10:30:00+02:00"),
		"key":     strptr("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		"aliases": strptr("one, two ,three"),
	})

	require.Empty(t, res.Warnings)
	assert.Equal(t, "Ada", res.Record.Name)
	assert.Equal(t, int64(42), res.Record.Count)
	assert.Equal(t, 2.5, res.Record.Ratio)
	assert.True(t, res.Record.Active)
	want, _ := time.Parse(time.RFC3339, "2025-06-01T10:30:00+02:00")
	assert.True(t, res.Record.When.Equal(want))
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), res.Record.Key)
	assert.Equal(t, []string{"one", "two", "three"}, res.Record.Aliases)
}

func TestMapper_Idempotence(t *testing.T) {
	headers := []string{"Id", "IsMember", "Age", "Extra"}
	fm := FieldMap{
		"Id":       strptr("7"),
		"IsMember": strptr("0"),
		"Age":      strptr("x"),
		"Extra":    nil,
	}

	m1, err := BuildMapper[member](headers)
	require.NoError(t, err)
	m2, err := BuildMapper[member](headers)
	require.NoError(t, err)

	r1 := m1.Map(fm)
	r2 := m2.Map(fm)
	assert.Equal(t, r1.Record, r2.Record)
	assert.Equal(t, r1.Warnings, r2.Warnings)
	assert.Equal(t, r1.Leftover, r2.Leftover)
}

func TestMapper_EmptyListText(t *testing.T) {
	type record struct {
		Tags []string
	}
	m, err := BuildMapper[record]([]string{"Tags"})
	require.NoError(t, err)

	for _, raw := range []*string{strptr(""), strptr("   "), nil} {
		res := m.Map(FieldMap{"Tags": raw})
		require.NotNil(t, res.Record.Tags)
		assert.Empty(t, res.Record.Tags)
		assert.Empty(t, res.Warnings)
	}
}

func TestMapper_ListElements(t *testing.T) {
	type record struct {
		Scores []int
	}
	m, err := BuildMapper[record]([]string{"Scores"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Scores": strptr(" 3 ,1,2 ")})
	assert.Equal(t, []int{3, 1, 2}, res.Record.Scores)
	assert.Empty(t, res.Warnings)
}

// The original behavior here was a hard failure for list elements while every
// other coercion failure was soft; this implementation deliberately treats a
// failed list-element parse as an ordinary warning.
func TestMapper_ListElementParseFailureIsWarning(t *testing.T) {
	type record struct {
		Scores []int
	}
	m, err := BuildMapper[record]([]string{"Scores"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Scores": strptr("1, two, 3")})
	assert.Empty(t, res.Record.Scores)
	assert.Equal(t, []string{"Scores: cannot parse value 'two' to type int"}, res.Warnings)
}

func TestMapper_LeftoverVerbatim(t *testing.T) {
	m, err := BuildMapper[member]([]string{"Id", "Comment", "Seen"})
	require.NoError(t, err)

	res := m.Map(FieldMap{
		"Id":      strptr("1"),
		"Comment": strptr("  raw, untouched  "),
		"Seen":    nil,
	})

	require.Len(t, res.Leftover, 2)
	require.NotNil(t, res.Leftover["Comment"])
	assert.Equal(t, "  raw, untouched  ", *res.Leftover["Comment"])
	require.Contains(t, res.Leftover, "Seen")
	assert.Nil(t, res.Leftover["Seen"])
	assert.Empty(t, res.Warnings)
}

func TestMapper_CaseInsensitiveMatch(t *testing.T) {
	m, err := BuildMapper[member]([]string{"id", "ISMEMBER", "aGe"})
	require.NoError(t, err)

	res := m.Map(FieldMap{
		"id":       strptr("9"),
		"ISMEMBER": strptr("true"),
		"aGe":      strptr("40"),
	})
	assert.Equal(t, member{Id: "9", IsMember: true, Age: 40}, res.Record)
	assert.Empty(t, res.Leftover)
}

func TestMapper_TagOverride(t *testing.T) {
	type record struct {
		Name    string `excel:"Full Name"`
		Ignored string `excel:"-"`
	}
	m, err := BuildMapper[record]([]string{"Full Name", "Ignored"})
	require.NoError(t, err)

	res := m.Map(FieldMap{
		"Full Name": strptr("Grace"),
		"Ignored":   strptr("nope"),
	})
	assert.Equal(t, "Grace", res.Record.Name)
	assert.Equal(t, "", res.Record.Ignored)
	require.NotNil(t, res.Leftover["Ignored"])
	assert.Equal(t, "nope", *res.Leftover["Ignored"])
}

func TestMapper_NestedObjectProperty(t *testing.T) {
	type address struct {
		City string
	}
	type record struct {
		Id      string
		Address address
	}
	m, err := BuildMapper[record]([]string{"Id", "Address"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Id": strptr("1"), "Address": strptr("Main St 1")})
	assert.Equal(t, address{}, res.Record.Address)
	assert.Equal(t, []string{"Address: ignored nested object property of type xlsxstream.address"}, res.Warnings)

	// An empty or absent source column stays silent.
	res = m.Map(FieldMap{"Id": strptr("1"), "Address": strptr("")})
	assert.Empty(t, res.Warnings)
	res = m.Map(FieldMap{"Id": strptr("1"), "Address": nil})
	assert.Empty(t, res.Warnings)
}

func TestMapper_UnsupportedType(t *testing.T) {
	type record struct {
		Meta map[string]string
	}
	m, err := BuildMapper[record]([]string{"Meta"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Meta": strptr("a=b")})
	assert.Nil(t, res.Record.Meta)
	assert.Equal(t, []string{"Meta: type map[string]string is unsupported"}, res.Warnings)
}

func TestMapper_UnmatchedFieldSilentDefault(t *testing.T) {
	type record struct {
		Id    string
		Score float64
	}
	m, err := BuildMapper[record]([]string{"Id"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Id": strptr("1")})
	assert.Equal(t, 0.0, res.Record.Score)
	assert.Empty(t, res.Warnings)
}

func TestMapper_PointerFields(t *testing.T) {
	type record struct {
		Age  *int
		Name *string
	}
	m, err := BuildMapper[record]([]string{"Age", "Name"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Age": strptr("33"), "Name": strptr(" Lin ")})
	require.NotNil(t, res.Record.Age)
	assert.Equal(t, 33, *res.Record.Age)
	require.NotNil(t, res.Record.Name)
	assert.Equal(t, "Lin", *res.Record.Name)

	res = m.Map(FieldMap{"Age": strptr(""), "Name": nil})
	assert.Nil(t, res.Record.Age)
	assert.Nil(t, res.Record.Name)
	assert.Empty(t, res.Warnings)

	res = m.Map(FieldMap{"Age": strptr("old"), "Name": nil})
	assert.Nil(t, res.Record.Age)
	assert.Equal(t, []string{"Age: cannot parse value 'old' to type int"}, res.Warnings)
}

func TestMapper_TimeFormatTag(t *testing.T) {
	type record struct {
		Day time.Time `fmt:"02.01.2006"`
	}
	m, err := BuildMapper[record]([]string{"Day"})
	require.NoError(t, err)

	res := m.Map(FieldMap{"Day": strptr("24.12.2025")})
	require.Empty(t, res.Warnings)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), res.Record.Day)
}

func TestMapper_ValidatorWarnings(t *testing.T) {
	type record struct {
		Id  string `validate:"required"`
		Age int    `validate:"gte=18"`
	}
	m, err := BuildMapper[record]([]string{"Id", "Age"}, UseValidator(validator.New()))
	require.NoError(t, err)

	res := m.Map(FieldMap{"Id": nil, "Age": strptr("12")})
	assert.Equal(t, 12, res.Record.Age)
	assert.Contains(t, res.Warnings, "Id: failed validation 'required'")
	assert.Contains(t, res.Warnings, "Age: failed validation 'gte'")
}

func TestBuildMapper_NonStruct(t *testing.T) {
	_, err := BuildMapper[int]([]string{"Id"})
	assert.Error(t, err)
}
