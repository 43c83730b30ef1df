package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/model"
)

func TestForRole(t *testing.T) {
	admin := ForRole(model.RoleAdministrator)
	editor := ForRole(model.RoleEditor)
	reader := ForRole(model.RoleReader)

	// Administrator ⊇ editor ⊇ reader.
	for c := range reader {
		assert.True(t, editor.Has(c), "editor missing %s", c)
	}
	for c := range editor {
		assert.True(t, admin.Has(c), "admin missing %s", c)
	}

	assert.True(t, admin.Has(CapUsersManage))
	assert.False(t, editor.Has(CapUsersManage))
	assert.True(t, editor.Has(CapBooksWrite))
	assert.False(t, reader.Has(CapBooksWrite))
	assert.True(t, reader.Has(CapCatalogRead))

	assert.Empty(t, ForRole(model.Role("unknown")))
}

func TestTokenIssueParse(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	u := &model.User{ID: "user-1", Role: model.RoleEditor}
	tok, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.True(t, FromStrings(claims.Capabilities).Has(CapBooksWrite))
	assert.False(t, FromStrings(claims.Capabilities).Has(CapUsersManage))
}

func TestTokenParse_Invalid(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)
	tok, err := other.Issue(&model.User{ID: "u", Role: model.RoleReader})
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenParse_Expired(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", -time.Minute)
	require.NoError(t, err)
	// ttl <= 0 falls back to the default, so build an expired issuer manually.
	issuer.ttl = -time.Minute

	tok, err := issuer.Issue(&model.User{ID: "u", Role: model.RoleReader})
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuer_MissingSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
