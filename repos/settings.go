package repos

// Settings is the persisted state of the whole service: the shared
// credential and the session table, mirrored to disk after every mutation.
type Settings struct {
	// CredentialEncoded holds the shared secret base64-encoded, or "" when
	// the service has not been configured yet.
	CredentialEncoded string `json:"credential_encoded"`
	// Sessions maps session tokens to their expiry as Unix seconds.
	// Expired entries are never written.
	Sessions map[string]int64 `json:"sessions"`
}

// SettingsRepository persists the settings blob. Callers serialize access;
// implementations do no locking of their own.
type SettingsRepository interface {
	// Load reads the persisted blob. A missing or unreadable file is not an
	// error: it yields an empty blob, because no file means first run.
	Load() Settings
	Save(settings Settings) error
}
