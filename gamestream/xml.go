package gamestream

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const statusOK = 200

// document is one parsed host response: the root status attributes plus the
// text of every direct child element, queried by name.
type document struct {
	statusCode    int
	statusMessage string
	fields        map[string]string
}

// parseDocument scans a host response for its status attributes and
// top-level field values. Nested structures (the applist's App entries) are
// parsed separately; only depth-one text matters here.
func parseDocument(data []byte) (*document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	doc := &document{fields: make(map[string]string)}
	rootSeen := false
	depth := 0
	field := ""
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				rootSeen = true
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "status_code":
						code, err := strconv.Atoi(attr.Value)
						if err != nil {
							return nil, fmt.Errorf("%w: bad status_code %q", ErrInvalidResponse, attr.Value)
						}
						doc.statusCode = code
					case "status_message":
						doc.statusMessage = attr.Value
					}
				}
			} else if depth == 2 {
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 && field != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 && field != "" {
				doc.fields[field] = text.String()
				field = ""
			}
			depth--
		}
	}

	if !rootSeen {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidResponse)
	}
	return doc, nil
}

// status maps a non-200 root status to ErrHost with the host's message.
func (d *document) status() error {
	if d.statusCode != statusOK {
		if d.statusMessage != "" {
			return fmt.Errorf("%w: status %d: %s", ErrHost, d.statusCode, d.statusMessage)
		}
		return fmt.Errorf("%w: status %d", ErrHost, d.statusCode)
	}
	return nil
}

func (d *document) field(name string) (string, bool) {
	value, ok := d.fields[name]
	return value, ok
}

func (d *document) requiredField(name string) (string, error) {
	value, ok := d.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return value, nil
}
