// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	second, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "$argon2id$"))
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "correct horse battery")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	ok, err := VerifyPassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("s3cret-pass", "not-a-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordWithRehashUpgradesBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("legacy-pass", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, newHash)
	assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))

	ok, err = VerifyPassword("legacy-pass", newHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, newHash, err = VerifyPasswordWithRehash("nope", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordWithRehashCurrentParams(t *testing.T) {
	hash, err := HashPassword("fresh-pass")
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("fresh-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}
