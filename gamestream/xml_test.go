package gamestream

import (
	"errors"
	"testing"
)

func TestParseDocumentFields(t *testing.T) {
	body := `<root status_code="200" status_message="OK">` +
		`<hostname>GAMING-PC</hostname>` +
		`<currentgame>0</currentgame>` +
		`</root>`

	doc, err := parseDocument([]byte(body))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if err := doc.status(); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	if value, ok := doc.field("hostname"); !ok || value != "GAMING-PC" {
		t.Fatalf("hostname = %q, %v", value, ok)
	}
	if _, ok := doc.field("missing"); ok {
		t.Fatalf("unexpected field hit")
	}
	if _, err := doc.requiredField("missing"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestParseDocumentNestedElementsIgnored(t *testing.T) {
	body := `<root status_code="200">` +
		`<App><ID>42</ID></App>` +
		`<paired>1</paired>` +
		`</root>`

	doc, err := parseDocument([]byte(body))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if value, ok := doc.field("paired"); !ok || value != "1" {
		t.Fatalf("paired = %q, %v", value, ok)
	}
	// Nested text must not leak into top-level fields.
	if value, _ := doc.field("ID"); value != "" {
		t.Fatalf("nested ID leaked: %q", value)
	}
}

func TestParseDocumentHostError(t *testing.T) {
	doc, err := parseDocument([]byte(`<root status_code="400" status_message="Invalid unique id"/>`))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if err := doc.status(); !errors.Is(err, ErrHost) {
		t.Fatalf("expected ErrHost, got %v", err)
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	cases := []string{
		"",
		"not xml at all",
		`<root status_code="200"><unclosed>`,
		`<root status_code="abc"/>`,
	}
	for _, body := range cases {
		if _, err := parseDocument([]byte(body)); !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("input %q: expected ErrInvalidResponse, got %v", body, err)
		}
	}
}
