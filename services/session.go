package services

import "time"

func (a *authService) CreateSession() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	a.sessions[token] = a.now().Add(a.ttl)
	a.persist()
	return token, nil
}

func (a *authService) ValidateSession(token string) bool {
	if token == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	expiresAt, ok := a.sessions[token]
	if !ok {
		return false
	}
	now := a.now()
	if now.After(expiresAt) {
		// Self-heal: drop the stale entry now, let the removal reach disk
		// with the next save instead of paying a write per lookup.
		delete(a.sessions, token)
		a.dirty = true
		return false
	}
	a.sessions[token] = now.Add(a.ttl)
	a.dirty = true
	return true
}

func (a *authService) RevokeSession(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
	a.persist()
}

func (a *authService) RevokeAllSessionsExcept(keepToken string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revokeAllExcept(keepToken)
	a.persist()
}

// revokeAllExcept requires the lock to be held. The kept session retains its
// current expiry rather than getting a fresh one.
func (a *authService) revokeAllExcept(keepToken string) {
	expiresAt, keep := a.sessions[keepToken]
	a.sessions = make(map[string]time.Time, 1)
	if keep {
		a.sessions[keepToken] = expiresAt
	}
}

func (a *authService) PruneExpiredSessions() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	removed := false
	for token, expiresAt := range a.sessions {
		if !expiresAt.After(now) {
			delete(a.sessions, token)
			removed = true
		}
	}
	if removed || a.dirty {
		a.persist()
	}
}

func (a *authService) SessionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

func (a *authService) SessionTTL() time.Duration {
	return a.ttl
}
