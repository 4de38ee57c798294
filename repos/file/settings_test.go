package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunnarhm/mkcontrol/repos"
)

func TestLoadMissingFile(t *testing.T) {
	repo := NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
	settings := repo.Load()
	assert.Empty(t, settings.CredentialEncoded)
	assert.NotNil(t, settings.Sessions)
	assert.Empty(t, settings.Sessions)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	repo := NewSettingsRepository(path)
	settings := repo.Load()
	assert.Empty(t, settings.CredentialEncoded)
	assert.NotNil(t, settings.Sessions)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	repo := NewSettingsRepository(path)

	expiry := time.Now().Add(24 * time.Hour).Unix()
	require.NoError(t, repo.Save(repos.Settings{
		CredentialEncoded: "aHVudGVyMg==",
		Sessions:          map[string]int64{"token-a": expiry},
	}))

	settings := repo.Load()
	assert.Equal(t, "aHVudGVyMg==", settings.CredentialEncoded)
	assert.Equal(t, expiry, settings.Sessions["token-a"])
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "settings.json")
	repo := NewSettingsRepository(path)
	require.NoError(t, repo.Save(repos.Settings{Sessions: map[string]int64{}}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewSettingsRepository(filepath.Join(dir, "settings.json"))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(repos.Settings{Sessions: map[string]int64{}}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestSaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	repo := NewSettingsRepository(path)
	require.NoError(t, repo.Save(repos.Settings{Sessions: map[string]int64{}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
