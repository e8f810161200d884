package common

import (
	"testing"

	"github.com/google/uuid"
)

func TestGetString(t *testing.T) {
	str := "Active"
	if got := GetString(&str); got != "Active" {
		t.Errorf("GetString(&str) = %q, want %q", got, "Active")
	}
	if got := GetString(nil); got != "" {
		t.Errorf("GetString(nil) = %q, want empty", got)
	}
}

func TestGetInt(t *testing.T) {
	val := 42
	if got := GetInt(&val); got != 42 {
		t.Errorf("GetInt(&val) = %d, want 42", got)
	}
	if got := GetInt(nil); got != 0 {
		t.Errorf("GetInt(nil) = %d, want 0", got)
	}
}

func TestGetUUIDString(t *testing.T) {
	id := uuid.New()
	if got := GetUUIDString(&id); got != id.String() {
		t.Errorf("GetUUIDString(&id) = %q, want %q", got, id.String())
	}
	if got := GetUUIDString(nil); got != "" {
		t.Errorf("GetUUIDString(nil) = %q, want empty", got)
	}
}

func TestFieldString(t *testing.T) {
	fields := map[string]interface{}{
		"System.Title": "Fix bug",
		"System.Rev":   float64(3),
		"System.Empty": nil,
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "string value", key: "System.Title", want: "Fix bug"},
		{name: "number value", key: "System.Rev", want: "3"},
		{name: "nil value", key: "System.Empty", want: ""},
		{name: "missing key", key: "System.State", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FieldString(fields, tt.key); got != tt.want {
				t.Errorf("FieldString(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLinkHref(t *testing.T) {
	links := map[string]interface{}{
		"html": map[string]interface{}{
			"href": "https://dev.azure.com/contoso/web/wi.aspx?id=42",
		},
		"self": "not-an-object",
	}

	tests := []struct {
		name  string
		links interface{}
		rel   string
		want  string
	}{
		{name: "html link", links: links, rel: "html", want: "https://dev.azure.com/contoso/web/wi.aspx?id=42"},
		{name: "malformed rel", links: links, rel: "self", want: ""},
		{name: "missing rel", links: links, rel: "fields", want: ""},
		{name: "nil links", links: nil, rel: "html", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinkHref(tt.links, tt.rel); got != tt.want {
				t.Errorf("LinkHref(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}
