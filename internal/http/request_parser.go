package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// maxFormBytes bounds a submitted form; the largest real one is a budget
// with its category list.
const maxFormBytes = 64 << 10

// fieldSource is satisfied by url.Values and formFields.
type fieldSource interface {
	Get(key string) string
}

// formFields are the fields of one submitted form, whichever encoding the
// client used. Values come back trimmed and without control characters.
type formFields struct {
	values url.Values
}

// readFields decodes the request body as urlencoded form data, or as JSON
// when the client says so or the body is an object.
func readFields(w http.ResponseWriter, r *http.Request) (formFields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFormBytes))
	if err != nil {
		return formFields{}, fmt.Errorf("read form: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return formFields{values: url.Values{}}, nil
	}
	if isJSONBody(r.Header.Get("Content-Type"), body) {
		values, err := jsonFields(body)
		return formFields{values: values}, err
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return formFields{}, fmt.Errorf("parse form: %w", err)
	}
	return formFields{values: values}, nil
}

func isJSONBody(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "application/json" {
		return true
	}
	return body[0] == '{'
}

// jsonFields flattens a JSON object into form values. Numbers keep the
// digits the client sent, arrays become repeated keys.
func jsonFields(body []byte) (url.Values, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode json form: %w", err)
	}
	values := url.Values{}
	for key, v := range obj {
		items, ok := v.([]any)
		if !ok {
			items = []any{v}
		}
		for _, item := range items {
			s, err := scalarText(item)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			values.Add(key, s)
		}
	}
	return values, nil
}

func scalarText(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	default:
		return "", errors.New("nested values are not form fields")
	}
}

func (f formFields) Get(key string) string {
	return sanitizeInput(f.values.Get(key))
}

// GetAll returns every value of a repeated field, without blank entries.
func (f formFields) GetAll(key string) []string {
	raw := f.values[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// queryFields wraps the URL query so GET handlers read it like a form.
func queryFields(r *http.Request) formFields {
	return formFields{values: r.URL.Query()}
}
