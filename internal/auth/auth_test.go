package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/store"
)

func newAuthorizer(t *testing.T) (*Authorizer, *store.Store) {
	t.Helper()
	s, err := store.New(store.Dependencies{
		Path: filepath.Join(t.TempDir(), "whitelist.txt"),
	})
	require.NoError(t, err)
	s.Init()
	return New(Dependencies{Store: s}), s
}

func TestAuthorizeWhitelisted(t *testing.T) {
	a, s := newAuthorizer(t)
	require.NoError(t, s.Add("STEAM_0:1:12345"))

	decision := a.Authorize("steam_0:1:12345")
	assert.True(t, decision.Allowed)
	assert.Equal(t, "authorize", decision.String())
}

func TestAuthorizeFoldsCase(t *testing.T) {
	a, s := newAuthorizer(t)
	require.NoError(t, s.Add("steam_0:1:1"))

	assert.True(t, a.Authorize("STEAM_0:1:1").Allowed)
}

func TestRejectNotWhitelisted(t *testing.T) {
	a, _ := newAuthorizer(t)

	decision := a.Authorize("steam_0:1:999")
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotWhitelisted, decision.Reason)
	assert.Equal(t, "reject: not whitelisted", decision.String())
}

func TestMissingIdentifierTakesPrecedence(t *testing.T) {
	a, _ := newAuthorizer(t)

	decision := a.Authorize("")
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonMissingIdentifier, decision.Reason)
	assert.Equal(t, "reject: missing identifier", decision.String())
}

func TestRejectLogThrottlingDoesNotAffectDecisions(t *testing.T) {
	s, err := store.New(store.Dependencies{
		Path: filepath.Join(t.TempDir(), "whitelist.txt"),
	})
	require.NoError(t, err)
	s.Init()

	a := New(Dependencies{Store: s, RejectLogPerSecond: 1, RejectLogBurst: 1})
	for i := 0; i < 10; i++ {
		decision := a.Authorize("steam_0:1:404")
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotWhitelisted, decision.Reason)
	}
}
