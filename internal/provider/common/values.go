package common

import (
	"fmt"

	"github.com/google/uuid"
)

func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func GetInt(ptr *int) int {
	if ptr == nil {
		return 0
	}
	return *ptr
}

func GetUUIDString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// FieldString reads a field from a decoded JSON object. Non-string values
// are formatted, missing ones yield "".
func FieldString(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// LinkHref resolves links[rel].href in a decoded "_links" object.
func LinkHref(links interface{}, rel string) string {
	m, ok := links.(map[string]interface{})
	if !ok {
		return ""
	}
	link, ok := m[rel].(map[string]interface{})
	if !ok {
		return ""
	}
	href, _ := link["href"].(string)
	return href
}
