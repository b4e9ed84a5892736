package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patchFrom(t *testing.T, body string) rawPatch {
	t.Helper()
	p, err := readPatch(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
	require.NoError(t, err)
	return p
}

func TestReadPatch_Rejects(t *testing.T) {
	for _, body := range []string{"", "null", "[]", `"x"`, "{}"} {
		_, err := readPatch(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
		assert.True(t, apperr.Is(err, apperr.KindValidation), "body %q", body)
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind apperr.Kind
	}{
		{"role is forbidden", `{"name":"x","role":"admin"}`, apperr.KindForbidden},
		{"unknown key", `{"name":"x","password":"y"}`, apperr.KindValidation},
		{"wrong type", `{"name":42}`, apperr.KindValidation},
		{"blank name", `{"name":"   "}`, apperr.KindValidation},
		{"bad email", `{"email":"nope"}`, apperr.KindValidation},
		{"null value", `{"name":null}`, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var update models.ProfileUpdate
			err := patchFrom(t, tt.body).bind(profileFields, &update)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestBind_Valid(t *testing.T) {
	var update models.BlogUpdate
	err := patchFrom(t, `{"title":"New","tags":["a","b"]}`).bind(blogFields, &update)
	require.NoError(t, err)

	require.NotNil(t, update.Title)
	assert.Equal(t, "New", *update.Title)
	require.NotNil(t, update.Tags)
	assert.Equal(t, []string{"a", "b"}, *update.Tags)
	assert.Nil(t, update.Content)
	assert.Nil(t, update.Category)
}

func TestBind_UnknownKeysListed(t *testing.T) {
	var update models.ContactUpdate
	err := patchFrom(t, `{"zeta":1,"alpha":2,"name":"ok"}`).bind(contactFields, &update)

	e := apperr.From(err)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "alpha", e.Fields[0].Field)
	assert.Equal(t, "zeta", e.Fields[1].Field)
}

func TestBind_NullFieldsListed(t *testing.T) {
	var update models.BlogUpdate
	err := patchFrom(t, `{"title":null,"content":"ok","tags":null}`).bind(blogFields, &update)

	e := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "tags", e.Fields[0].Field)
	assert.Equal(t, "title", e.Fields[1].Field)
	assert.Equal(t, "title cannot be null", e.Fields[1].Message)
}

func TestReadPatch_BodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"a much longer name"}`))
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 8)

	_, err := readPatch(req)
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apperr.From(err).Status())
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","password":"abcdef"}`))
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 8)

	var payload AuthPayload
	err := decodeJSON(req, &payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apperr.From(err).Status())
}

func TestEmailParam(t *testing.T) {
	withEmail := func(email string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("email", email)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	email, err := emailParam(withEmail("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	_, err = emailParam(withEmail("not-an-email"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
