package validation

import (
	"strings"
	"testing"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{Name: "A", Email: "a@x.com", Password: "abcdef"})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "abc"})
	require.Error(t, err)

	e := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)

	byField := map[string]string{}
	for _, f := range e.Fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "name is required", byField["name"])
	assert.Equal(t, "email must be a valid email address", byField["email"])
	assert.Equal(t, "password must be at least 6 characters long", byField["password"])
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "a@x.com", "email"))

	err := Var("email", "not-an-email", "email")
	require.Error(t, err)
	e := apperr.From(err)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "email", e.Fields[0].Field)
	assert.Equal(t, "email must be a valid email address", e.Fields[0].Message)
}

func TestBytesMax(t *testing.T) {
	assert.NoError(t, Var("password", strings.Repeat("a", 72), "bytesmax=72"))

	// 40 runes pass a rune-based max but are 80 bytes long.
	long := strings.Repeat("é", 40)
	assert.NoError(t, Var("password", long, "max=72"))

	err := Var("password", long, "bytesmax=72")
	require.Error(t, err)
	assert.Equal(t, "password must be no longer than 72 bytes", apperr.From(err).Message)
}
