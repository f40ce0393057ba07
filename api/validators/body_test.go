package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemPayload struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type orderPayload struct {
	Email string        `json:"email" validate:"required,email"`
	Items []itemPayload `json:"items" validate:"dive"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io","items":[{"quantity":2}]}`))
	var dest orderPayload
	require.NoError(t, DecodeJSONBody(req, &dest))
	assert.Equal(t, "a@x.io", dest.Email)
	assert.Equal(t, 2, dest.Items[0].Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io","extra":true}`))
	var dest orderPayload
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingInput(t *testing.T) {
	var dest orderPayload
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader("")), &dest)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io"}{"email":"b@x.io"}`)), &dest)
	require.Error(t, err)
	assert.Equal(t, "invalid request body", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"items":[{"quantity":1},{"quantity":0}]}`))
	var dest orderPayload
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "can't be blank", details["email"])
	assert.Equal(t, "must be at least 1", details["items[1].quantity"])
	assert.NotContains(t, details, "items[0].quantity")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString(" abc ", 0))
}
