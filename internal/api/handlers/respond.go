package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError logs unexpected failures and writes the error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	}
	apperr.Write(w, err)
}

// decodeJSON decodes the request body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return bodyError(err)
	}
	return validation.Struct(dst)
}

// bodyError maps a body decoding failure to 413 or 400.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.Validation("Request body too large").WithStatus(http.StatusRequestEntityTooLarge)
	}
	return apperr.Validation("Invalid request body")
}

// fieldSet is the statically declared set of keys an update payload may carry.
type fieldSet map[string]struct{}

func fields(names ...string) fieldSet {
	set := make(fieldSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// protectedFields can never be changed through a generic update.
var protectedFields = []string{"role"}

// rawPatch is an update payload decoded but not yet checked.
type rawPatch map[string]json.RawMessage

// readPatch decodes an update body that must be a non-empty JSON object.
func readPatch(r *http.Request) (rawPatch, error) {
	var p rawPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, bodyError(err)
	}
	if p == nil {
		return nil, apperr.Validation("Invalid request body")
	}
	if len(p) == 0 {
		return nil, apperr.Validation("No fields to update")
	}
	return p, nil
}

// bind checks every key of p against allowed and decodes p into dst.
// A protected key is forbidden, any other unknown key rejects the whole update.
func (p rawPatch) bind(allowed fieldSet, dst any) error {
	for _, k := range protectedFields {
		if _, ok := p[k]; ok {
			return apperr.Forbidden("Role cannot be updated directly")
		}
	}

	var unknown []string
	for _, k := range sortedKeys(p) {
		if _, ok := allowed[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		errs := make([]apperr.FieldError, 0, len(unknown))
		for _, k := range unknown {
			errs = append(errs, apperr.FieldError{Field: k, Message: k + " cannot be updated"})
		}
		return apperr.Validation("Invalid updates!", errs...)
	}

	// A null would decode to "unchanged" and silently drop the key.
	var nulls []apperr.FieldError
	for _, k := range sortedKeys(p) {
		if bytes.Equal(bytes.TrimSpace(p[k]), []byte("null")) {
			nulls = append(nulls, apperr.FieldError{Field: k, Message: k + " cannot be null"})
		}
	}
	if len(nulls) > 0 {
		return apperr.Validation("Invalid updates!", nulls...)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return validation.Struct(dst)
}

func sortedKeys(p rawPatch) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// emailParam returns the {email} URL parameter if it is a well-formed address.
func emailParam(r *http.Request) (string, error) {
	email := chi.URLParam(r, "email")
	if err := validation.Var("email", email, "required,email"); err != nil {
		return "", err
	}
	return email, nil
}
