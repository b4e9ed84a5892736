package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef-test")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testUser() models.User {
	return models.User{ID: "u-1", Name: "A", Email: "a@x.com", Role: models.RoleUser}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, 6*time.Hour)
	tok, err := svc.Issue(ClaimsFor(testUser()))
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, 6*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerify_ExpiryWindow(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, 6*time.Hour)
	svc.now = fixedClock(issuedAt)

	tok, err := svc.Issue(ClaimsFor(testUser()))
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(5*time.Hour + 59*time.Minute))
	_, err = svc.Verify(tok)
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(6*time.Hour + time.Minute))
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret-0123456"), time.Hour).Issue(ClaimsFor(testUser()))
	require.NoError(t, err)

	_, err = NewTokenService([]byte("wrong-secret-0123456"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Hour)
	for _, in := range []string{"", "not.a.jwt", "abc"} {
		_, err := svc.Verify(in)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", in)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	c := ClaimsFor(testUser())
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ClaimsFor(testUser())).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	u := testUser()
	u.Role = "superuser"
	svc := NewTokenService(testSecret, time.Hour)
	tok, err := svc.Issue(ClaimsFor(u))
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
