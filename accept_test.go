package bfault_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bfault"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(ranges []bfault.MediaRange) []string {
	if len(ranges) == 0 {
		return nil
	}

	return lo.Map(ranges, func(mr bfault.MediaRange, _ int) string { return mr.Type })
}

func TestParseAccept(t *testing.T) {
	for _, tt := range []struct {
		header string
		expect []string
	}{
		{"", nil},
		{"   ", nil},
		{"application/json", []string{"application/json"}},
		{"text/html, application/json", []string{"text/html", "application/json"}},
		{"text/html;q=0.2, application/json;q=0.9", []string{"text/html", "application/json"}},
		{"a/a;q=0.5, b/b, c/c;q=0.5, d/d", []string{"a/a", "b/b", "c/c", "d/d"}},
		{"text/plain;q=0, text/html", []string{"text/html"}},
		{"garbage, /json, text/, text/plain", []string{"text/plain"}},
		{"text/plain;q=abc", []string{"text/plain"}},
		{"Application/JSON", []string{"Application/JSON"}},
		{"*/*;q=0.1, text/html", []string{"*/*", "text/html"}},
	} {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expect, types(bfault.ParseAccept(tt.header)))
		})
	}
}

func TestParseAcceptParams(t *testing.T) {
	ranges := bfault.ParseAccept(`text/html; Level="1"; q=0.7`)
	require.Len(t, ranges, 1)
	assert.Equal(t, "text/html", ranges[0].Type)
	assert.InDelta(t, 0.7, ranges[0].Quality, 0.0001)
	assert.Equal(t, map[string]string{"level": "1"}, ranges[0].Params)
}

func TestAcceptedMediaTypesJoinsHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Add("Accept", "text/plain")
	req.Header.Add("Accept", "application/json")

	assert.Equal(t, []string{"text/plain", "application/json"}, types(bfault.AcceptedMediaTypes(req)))
	assert.Nil(t, bfault.AcceptedMediaTypes(nil))
}
