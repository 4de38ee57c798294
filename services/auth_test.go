package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunnarhm/mkcontrol/repos"
	"github.com/gunnarhm/mkcontrol/repos/file"
)

const testTTL = 30 * 24 * time.Hour

func newTestService(t *testing.T) (*authService, repos.SettingsRepository) {
	t.Helper()
	repo := file.NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
	return NewAuthService(repo, testTTL).(*authService), repo
}

func TestSetCredential_Validation(t *testing.T) {
	a, _ := newTestService(t)

	assert.ErrorIs(t, a.SetCredential(""), ErrEmptyCredential)
	assert.ErrorIs(t, a.SetCredential("ab"), ErrCredentialTooShort)
	assert.False(t, a.IsConfigured())

	require.NoError(t, a.SetCredential("abcd"))
	assert.True(t, a.IsConfigured())
}

func TestVerifyCredential(t *testing.T) {
	a, _ := newTestService(t)

	assert.False(t, a.VerifyCredential(""), "unconfigured service must reject everything")
	assert.False(t, a.VerifyCredential("anything"))

	require.NoError(t, a.SetCredential("correct horse"))
	assert.True(t, a.VerifyCredential("correct horse"))
	assert.False(t, a.VerifyCredential("wrong"))
	assert.False(t, a.VerifyCredential(""))
}

func TestChangeCredential(t *testing.T) {
	a, _ := newTestService(t)
	require.NoError(t, a.SetCredential("oldsecret"))
	caller, err := a.CreateSession()
	require.NoError(t, err)
	other, err := a.CreateSession()
	require.NoError(t, err)

	assert.ErrorIs(t, a.ChangeCredential("nope", "newsecret", "newsecret", caller), ErrWrongCredential)
	assert.ErrorIs(t, a.ChangeCredential("oldsecret", "", "", caller), ErrEmptyCredential)
	assert.ErrorIs(t, a.ChangeCredential("oldsecret", "ab", "ab", caller), ErrCredentialTooShort)
	assert.ErrorIs(t, a.ChangeCredential("oldsecret", "newsecret", "different", caller), ErrCredentialMismatch)

	// Nothing above may have touched the sessions.
	assert.True(t, a.ValidateSession(other))

	require.NoError(t, a.ChangeCredential("oldsecret", "newsecret", "newsecret", caller))
	assert.True(t, a.VerifyCredential("newsecret"))
	assert.False(t, a.VerifyCredential("oldsecret"))
	assert.True(t, a.ValidateSession(caller), "the caller's session must survive the rotation")
	assert.False(t, a.ValidateSession(other), "every other session must be revoked")
}

func TestValidateSession_SlidesExpiry(t *testing.T) {
	a, _ := newTestService(t)
	now := time.Now()
	a.now = func() time.Time { return now }

	token, err := a.CreateSession()
	require.NoError(t, err)

	// Repeated validation within the TTL never invalidates and always moves
	// the expiry to now+TTL, never backward.
	for i := 0; i < 5; i++ {
		now = now.Add(10 * 24 * time.Hour)
		require.True(t, a.ValidateSession(token))
		assert.Equal(t, now.Add(testTTL), a.sessions[token])
	}
}

func TestValidateSession_Expired(t *testing.T) {
	a, repo := newTestService(t)
	now := time.Now()
	a.now = func() time.Time { return now }

	token, err := a.CreateSession()
	require.NoError(t, err)

	now = now.Add(31 * 24 * time.Hour)
	assert.False(t, a.ValidateSession(token))
	assert.False(t, a.ValidateSession(token), "an expired token never becomes valid again")
	assert.Equal(t, 0, a.SessionCount())

	// The stale entry must be gone from the persisted blob after the next save.
	a.PruneExpiredSessions()
	assert.NotContains(t, repo.Load().Sessions, token)
}

func TestRevokeSession(t *testing.T) {
	a, repo := newTestService(t)
	token, err := a.CreateSession()
	require.NoError(t, err)
	require.True(t, a.ValidateSession(token))

	a.RevokeSession(token)
	assert.False(t, a.ValidateSession(token))
	assert.NotContains(t, repo.Load().Sessions, token)
}

func TestRevokeAllSessionsExcept(t *testing.T) {
	a, _ := newTestService(t)
	keep, err := a.CreateSession()
	require.NoError(t, err)
	keptExpiry := a.sessions[keep]
	for i := 0; i < 3; i++ {
		_, err := a.CreateSession()
		require.NoError(t, err)
	}

	a.RevokeAllSessionsExcept(keep)
	assert.Equal(t, 1, a.SessionCount())
	assert.Equal(t, keptExpiry, a.sessions[keep], "the kept session retains its current expiry")

	a.RevokeAllSessionsExcept("no-such-token")
	assert.Equal(t, 0, a.SessionCount())
}

func TestPruneExpiredSessions(t *testing.T) {
	a, _ := newTestService(t)
	now := time.Now()
	a.now = func() time.Time { return now }

	live, err := a.CreateSession()
	require.NoError(t, err)
	now = now.Add(20 * 24 * time.Hour)
	require.True(t, a.ValidateSession(live))

	now = now.Add(-20 * 24 * time.Hour)
	_, err = a.CreateSession()
	require.NoError(t, err)
	now = now.Add(31 * 24 * time.Hour)

	a.PruneExpiredSessions()
	assert.Equal(t, 1, a.SessionCount())
	assert.True(t, a.ValidateSession(live))
}

func TestRestartRestoresState(t *testing.T) {
	repo := file.NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
	a := NewAuthService(repo, testTTL)
	require.NoError(t, a.SetCredential("abcd"))
	token, err := a.CreateSession()
	require.NoError(t, err)

	restarted := NewAuthService(repo, testTTL)
	assert.True(t, restarted.IsConfigured())
	assert.True(t, restarted.VerifyCredential("abcd"))
	assert.True(t, restarted.ValidateSession(token))
	assert.Equal(t, 1, restarted.SessionCount())
}

func TestPersistOmitsExpiredSessions(t *testing.T) {
	a, repo := newTestService(t)
	now := time.Now()
	a.now = func() time.Time { return now }

	stale, err := a.CreateSession()
	require.NoError(t, err)
	now = now.Add(31 * 24 * time.Hour)
	live, err := a.CreateSession()
	require.NoError(t, err)

	settings := repo.Load()
	assert.Contains(t, settings.Sessions, live)
	assert.NotContains(t, settings.Sessions, stale)
}

func TestTokensAreUnique(t *testing.T) {
	a, _ := newTestService(t)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := a.CreateSession()
		require.NoError(t, err)
		require.Len(t, token, 64)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}
