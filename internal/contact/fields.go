package contact

import (
	"net/url"
	"strings"
)

// FieldsFromForm extracts the contact fields from a parsed form body.
func FieldsFromForm(values url.Values) Fields {
	return Fields{
		Name:    values.Get("name"),
		Email:   values.Get("email"),
		City:    values.Get("city"),
		Phone:   values.Get("phone"),
		Message: values.Get("message"),
	}.Normalize()
}

// FieldsFromMap extracts the contact fields from a decoded JSON object.
// Missing and non-string values become empty strings.
func FieldsFromMap(values map[string]any) Fields {
	return Fields{
		Name:    stringValue(values, "name"),
		Email:   stringValue(values, "email"),
		City:    stringValue(values, "city"),
		Phone:   stringValue(values, "phone"),
		Message: stringValue(values, "message"),
	}
}

func stringValue(values map[string]any, key string) string {
	s, ok := values[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
