package contact

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFields() Fields {
	return Fields{
		Name:    "Jane Smith",
		Email:   "jane@example.com",
		City:    "Dallas",
		Phone:   "",
		Message: "We want to build a modern custom home in Preston Hollow with a courtyard.",
	}
}

func TestValidate_ValidPayload(t *testing.T) {
	assert.Empty(t, Validate(validFields()))
}

func TestValidate_AllEmpty(t *testing.T) {
	errs := Validate(Fields{})

	assert.Len(t, errs, 4)
	assert.Equal(t, "Please enter your name.", errs["name"])
	assert.Equal(t, "Please enter your email address.", errs["email"])
	assert.Equal(t, "Please select a city.", errs["city"])
	assert.Equal(t, "Please tell us about your project.", errs["message"])
	assert.NotContains(t, errs, "phone")
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Fields)
		field   string
		message string
	}{
		{
			name:    "single character name",
			mutate:  func(f *Fields) { f.Name = "J" },
			field:   "name",
			message: "Please enter your full name.",
		},
		{
			name:    "email without domain dot",
			mutate:  func(f *Fields) { f.Email = "jane@example" },
			field:   "email",
			message: "Please enter a valid email address.",
		},
		{
			name:    "email with whitespace",
			mutate:  func(f *Fields) { f.Email = "jane smith@example.com" },
			field:   "email",
			message: "Please enter a valid email address.",
		},
		{
			name:    "email with two at signs",
			mutate:  func(f *Fields) { f.Email = "jane@@example.com" },
			field:   "email",
			message: "Please enter a valid email address.",
		},
		{
			name:    "city outside DFW",
			mutate:  func(f *Fields) { f.City = "Austin" },
			field:   "city",
			message: "We currently build only in the Dallas-Fort Worth area.",
		},
		{
			name:    "short message",
			mutate:  func(f *Fields) { f.Message = "Build me a house" },
			field:   "message",
			message: "Please share a little more detail about your project.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			errs := Validate(f)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestValidate_CityIsCaseInsensitive(t *testing.T) {
	for _, city := range []string{"dallas", "FORT WORTH", "mcKinney", "university park"} {
		f := validFields()
		f.City = city
		assert.Empty(t, Validate(f), "city %q", city)
	}
}

func TestValidate_MessageLengthCountsCharacters(t *testing.T) {
	f := validFields()
	f.Message = "Casa moderna con patio — ñ"
	assert.Empty(t, Validate(f))

	f.Message = "ééééééééééééééééééé" // 19 runes, 38 bytes
	assert.Equal(t, "Please share a little more detail about your project.", Validate(f)["message"])
}

func TestValidate_PhoneIsNeverChecked(t *testing.T) {
	f := validFields()
	f.Phone = "call me maybe"
	assert.Empty(t, Validate(f))
}

func TestCanonicalCity(t *testing.T) {
	city, ok := CanonicalCity("  flower mound ")
	assert.True(t, ok)
	assert.Equal(t, "Flower Mound", city)

	_, ok = CanonicalCity("Houston")
	assert.False(t, ok)

	cities := ServiceAreaCities()
	assert.Contains(t, cities, "Dallas")
	assert.IsNonDecreasing(t, cities)
}

func TestFieldsFromMap(t *testing.T) {
	f := FieldsFromMap(map[string]any{
		"name":    "  Jane Smith ",
		"email":   "jane@example.com",
		"city":    42,
		"message": nil,
		"extra":   "ignored",
	})

	assert.Equal(t, Fields{Name: "Jane Smith", Email: "jane@example.com"}, f)
	assert.Equal(t, Fields{}, FieldsFromMap(nil))
}

func TestFieldsFromForm(t *testing.T) {
	f := FieldsFromForm(url.Values{
		"name":  {" Jane Smith "},
		"city":  {"Plano", "Frisco"},
		"phone": {" 214-555-0100 "},
	})

	assert.Equal(t, Fields{Name: "Jane Smith", City: "Plano", Phone: "214-555-0100"}, f)
}
