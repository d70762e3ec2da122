package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postBody(contentType, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/budgets", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return httptest.NewRecorder(), req
}

func TestReadFieldsForm(t *testing.T) {
	w, r := postBody("application/x-www-form-urlencoded",
		"name=+%C4%82n+u%E1%BB%91ng+&category_ids=C3&category_ids=+&category_ids=C4")

	f, err := readFields(w, r)
	require.NoError(t, err)
	assert.Equal(t, "Ăn uống", f.Get("name"))
	assert.Equal(t, []string{"C3", "C4"}, f.GetAll("category_ids"))
	assert.Empty(t, f.Get("missing"))
	assert.Empty(t, f.GetAll("missing"))
}

func TestReadFieldsJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{"declared", "application/json; charset=utf-8"},
		{"sniffed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := postBody(tt.contentType,
				`{"amount": 1500000.50, "name": "Tháng 5", "category_ids": ["C1", 7, " "], "note": null}`)

			f, err := readFields(w, r)
			require.NoError(t, err)
			assert.Equal(t, "1500000.50", f.Get("amount"), "digits kept as sent")
			assert.Equal(t, "Tháng 5", f.Get("name"))
			assert.Equal(t, []string{"C1", "7"}, f.GetAll("category_ids"))
			assert.Empty(t, f.Get("note"))
		})
	}
}

func TestReadFieldsRejects(t *testing.T) {
	tests := map[string]string{
		"malformed json":  `{"name": `,
		"nested object":   `{"name": {"vi": "x"}}`,
		"malformed query": "name=%zz",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w, r := postBody("", body)
			_, err := readFields(w, r)
			assert.Error(t, err)
		})
	}

	t.Run("oversized body", func(t *testing.T) {
		w, r := postBody("", "name="+strings.Repeat("a", maxFormBytes))
		_, err := readFields(w, r)
		assert.Error(t, err)
	})
}

func TestReadFieldsEmptyBody(t *testing.T) {
	w, r := postBody("", "   ")
	f, err := readFields(w, r)
	require.NoError(t, err)
	assert.Empty(t, f.Get("name"))
}

func TestFieldsStripControlCharacters(t *testing.T) {
	w, r := postBody("", "description=Ph%E1%BB%9F%00+b%C3%B2")
	f, err := readFields(w, r)
	require.NoError(t, err)
	assert.Equal(t, "Phở bò", f.Get("description"))
}

func TestQueryFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/reports/data?time_range=+year+&wallet_id=W1", nil)
	f := queryFields(r)
	assert.Equal(t, "year", f.Get("time_range"))
	assert.Equal(t, "W1", f.Get("wallet_id"))
}
