package guilds

import (
	"errors"
	"testing"
	"time"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProvider(t *testing.T, ttl time.Duration) (*Provider, *database.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProvider(db, DefaultsFor("-"), ttl), db
}

func TestProvider_CreatesDefaults(t *testing.T) {
	p, db := setupProvider(t, time.Minute)

	cfg, err := p.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Prefix)
	assert.True(t, cfg.MentionPrefix)
	assert.True(t, cfg.ShowPermissionErrors)
	assert.True(t, cfg.UseEmbeds)
	assert.False(t, cfg.DeleteCommandMessages)
	for _, m := range dispatch.Modules() {
		assert.True(t, cfg.ModuleEnabled(m), m)
	}

	stored, err := db.FetchGuildSettings("1")
	require.NoError(t, err)
	assert.Equal(t, "-", stored.Prefix)
}

func TestProvider_EmptyGuild(t *testing.T) {
	p, _ := setupProvider(t, time.Minute)
	_, err := p.Get("")
	assert.ErrorIs(t, err, dispatch.ErrGuildNotFound)
}

func TestProvider_CacheAndInvalidate(t *testing.T) {
	p, db := setupProvider(t, time.Minute)
	now := time.Unix(1000, 0)
	p.now = func() time.Time { return now }

	_, err := p.Get("1")
	require.NoError(t, err)

	// Written behind the provider's back: still cached.
	require.NoError(t, db.SetModuleEnabled("1", "fun", false))
	cfg, _ := p.Get("1")
	assert.True(t, cfg.ModuleEnabled(dispatch.ModuleFun))

	now = now.Add(2 * time.Minute)
	cfg, _ = p.Get("1")
	assert.False(t, cfg.ModuleEnabled(dispatch.ModuleFun))

	require.NoError(t, p.Update("1", func(s *database.GuildSettings) { s.Prefix = "!" }))
	cfg, _ = p.Get("1")
	assert.Equal(t, "!", cfg.Prefix)

	require.NoError(t, p.SetModuleEnabled("1", dispatch.ModuleFun, true))
	cfg, _ = p.Get("1")
	assert.True(t, cfg.ModuleEnabled(dispatch.ModuleFun))
}

func TestProvider_SnapshotsAreIndependent(t *testing.T) {
	p, _ := setupProvider(t, time.Minute)
	a, err := p.Get("1")
	require.NoError(t, err)
	a.EnabledModules[dispatch.ModuleFun] = false

	b, err := p.Get("1")
	require.NoError(t, err)
	assert.True(t, b.ModuleEnabled(dispatch.ModuleFun))
}

type brokenStore struct {
	Store
}

func (brokenStore) FetchGuildSettings(string) (*database.GuildSettings, error) {
	return nil, errors.New("disk I/O error")
}

func TestProvider_StoreFailure(t *testing.T) {
	p := NewProvider(brokenStore{}, DefaultsFor("-"), time.Minute)
	_, err := p.Get("1")
	assert.Error(t, err)
}
