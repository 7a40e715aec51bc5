package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discountBody struct {
	Amount *int64 `json:"amount" validate:"required,gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":250}`))
	var body discountBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.EqualValues(t, 250, *body.Amount)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":1,"isAdmin":true}`))
	var body discountBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":-5}`))
	var body discountBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be 0 or more", details["amount"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=4", nil)
	v, err := ParseQueryInt(req, "limit", 8, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	v, err = ParseQueryInt(req, "limit", 8, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err = ParseQueryInt(req, "limit", 8, 1, 50)
	assert.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 8, 1, 50)
	assert.Error(t, err)
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "Sofá", SanitizeString("  Sofá cama ", 4))
	assert.Equal(t, "Oak", SanitizeString(" Oak ", 0))
}

func TestParseQuerySet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?expand=Items,%20", nil)
	set, err := ParseQuerySet(req, "expand", "items")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"items": true}, set)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	set, err = ParseQuerySet(req, "expand", "items")
	require.NoError(t, err)
	assert.Empty(t, set)

	req = httptest.NewRequest(http.MethodGet, "/?expand=items,prices", nil)
	_, err = ParseQuerySet(req, "expand", "items")
	require.Error(t, err)
	details := pkgerrors.As(err).Details().(map[string]any)
	assert.Equal(t, "prices", details["value"])
}

func TestDecodeJSONBodyEmptyAndTrailing(t *testing.T) {
	var body discountBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &body)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":1}{"amount":2}`)), &body)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDecodeJSONBodyLimitRaisesCap(t *testing.T) {
	var body struct {
		Image string `json:"image" validate:"required"`
	}
	large := `{"image":"` + strings.Repeat("x", 2*MaxBodyBytes) + `"}`

	err := DecodeJSONBodyLimit(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(large)), &body, MaxItemBodyBytes)
	require.NoError(t, err)
	assert.Len(t, body.Image, 2*MaxBodyBytes)

	err = DecodeJSONBodyLimit(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(large)), &body, 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request body exceeds 1024 bytes")
}

func TestDecodeJSONBodyRejectsOversized(t *testing.T) {
	huge := `{"amount":1,"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	var body discountBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge)), &body)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
