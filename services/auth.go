package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/juho05/log"

	"github.com/gunnarhm/mkcontrol/repos"
)

// minCredentialLength is the minimum length of the shared secret in characters.
const minCredentialLength = 4

// AuthService owns the shared credential and the session table. All state
// lives in memory behind one lock; the settings repository is a mirror
// updated after every mutation so state survives a restart.
type AuthService interface {
	// IsConfigured reports whether a credential has been set.
	IsConfigured() bool
	// SetCredential stores the initial shared secret.
	// Returns ErrEmptyCredential or ErrCredentialTooShort on invalid input.
	SetCredential(secret string) error
	// VerifyCredential compares candidate against the stored secret in
	// constant time. Always false while unconfigured.
	VerifyCredential(candidate string) bool
	// ChangeCredential rotates the shared secret. On success every session
	// except keepToken is revoked, so the caller stays logged in while all
	// other devices have to authenticate again.
	ChangeCredential(current, newSecret, confirmSecret, keepToken string) error

	// CreateSession mints a fresh token valid for the configured TTL.
	CreateSession() (string, error)
	// ValidateSession reports whether token identifies a live session and,
	// if so, slides its expiry forward to now+TTL.
	ValidateSession(token string) bool
	// RevokeSession removes one session. Revoked tokens never become valid again.
	RevokeSession(token string)
	// RevokeAllSessionsExcept clears the table, keeping only keepToken (with
	// its current expiry) if it exists.
	RevokeAllSessionsExcept(keepToken string)
	// PruneExpiredSessions drops all expired entries and flushes pending
	// removals to disk. Validate self-heals without it; this only bounds growth.
	PruneExpiredSessions()
	SessionCount() int
	SessionTTL() time.Duration
}

type authService struct {
	mu         sync.RWMutex
	credential string
	sessions   map[string]time.Time
	// dirty marks in-memory removals and expiry slides that have not reached
	// disk yet. They are flushed with the next mutation-driven save.
	dirty bool

	settingsRepo repos.SettingsRepository
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(settingsRepo repos.SettingsRepository, ttl time.Duration) AuthService {
	a := &authService{
		sessions:     make(map[string]time.Time),
		settingsRepo: settingsRepo,
		ttl:          ttl,
		now:          time.Now,
	}
	settings := settingsRepo.Load()
	if settings.CredentialEncoded != "" {
		secret, err := base64.StdEncoding.DecodeString(settings.CredentialEncoded)
		if err != nil {
			log.Warnf("Stored credential is not valid base64: %s. Treating service as unconfigured.", err)
		} else {
			a.credential = string(secret)
		}
	}
	now := a.now()
	for token, expiresAt := range settings.Sessions {
		if exp := time.Unix(expiresAt, 0); exp.After(now) {
			a.sessions[token] = exp
		}
	}
	if len(a.sessions) > 0 {
		log.Infof("Restored %d active session(s)", len(a.sessions))
	}
	return a
}

func (a *authService) IsConfigured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.credential != ""
}

func (a *authService) SetCredential(secret string) error {
	if err := validateCredential(secret); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credential = secret
	a.persist()
	return nil
}

func (a *authService) VerifyCredential(candidate string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.verify(candidate)
}

func (a *authService) ChangeCredential(current, newSecret, confirmSecret, keepToken string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.verify(current) {
		return ErrWrongCredential
	}
	if err := validateCredential(newSecret); err != nil {
		return err
	}
	if newSecret != confirmSecret {
		return ErrCredentialMismatch
	}
	a.credential = newSecret
	a.revokeAllExcept(keepToken)
	a.persist()
	return nil
}

// verify requires the lock to be held.
func (a *authService) verify(candidate string) bool {
	if a.credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.credential)) == 1
}

func validateCredential(secret string) error {
	if secret == "" {
		return ErrEmptyCredential
	}
	if utf8.RuneCountInString(secret) < minCredentialLength {
		return ErrCredentialTooShort
	}
	return nil
}

// persist mirrors the in-memory state to disk. It requires the lock to be
// held so a concurrent mutation cannot be overwritten by a stale snapshot.
// Failures are logged and swallowed: memory stays authoritative for the
// life of the process.
func (a *authService) persist() {
	settings := repos.Settings{
		Sessions: make(map[string]int64, len(a.sessions)),
	}
	if a.credential != "" {
		settings.CredentialEncoded = base64.StdEncoding.EncodeToString([]byte(a.credential))
	}
	now := a.now()
	for token, expiresAt := range a.sessions {
		if expiresAt.After(now) {
			settings.Sessions[token] = expiresAt.Unix()
		}
	}
	if err := a.settingsRepo.Save(settings); err != nil {
		log.Warnf("Failed to persist settings: %s", err)
		return
	}
	a.dirty = false
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
