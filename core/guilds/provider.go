// Package guilds supplies per-guild configuration snapshots from the database.
package guilds

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"GuildBot/core"
	"GuildBot/core/database"
	"GuildBot/core/dispatch"
)

// Store is the part of the database the provider needs.
type Store interface {
	FetchGuildSettings(guildID string) (*database.GuildSettings, error)
	UpsertGuildSettings(s *database.GuildSettings) error
	FetchModuleStates(guildID string) ([]database.ModuleState, error)
	SetModuleEnabled(guildID, module string, enabled bool) error
}

// Defaults seeds the settings of guilds seen for the first time.
type Defaults struct {
	Prefix                string
	MentionPrefix         bool
	ShowModuleErrors      bool
	ShowPermissionErrors  bool
	DeleteCommandMessages bool
	UseEmbeds             bool
}

func DefaultsFor(prefix string) Defaults {
	return Defaults{
		Prefix:               prefix,
		MentionPrefix:        true,
		ShowPermissionErrors: true,
		UseEmbeds:            true,
	}
}

type entry struct {
	cfg     dispatch.GuildConfiguration
	expires time.Time
}

// Provider caches configurations for ttl. Writes through the provider invalidate the guild's entry.
type Provider struct {
	store    Store
	defaults Defaults
	ttl      time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]entry
}

func NewProvider(store Store, defaults Defaults, ttl time.Duration) *Provider {
	return &Provider{
		store:    store,
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
		cache:    map[string]entry{},
	}
}

// Get returns a snapshot of the guild's configuration, creating default settings for new guilds.
func (p *Provider) Get(guildID string) (dispatch.GuildConfiguration, error) {
	if guildID == "" {
		return dispatch.GuildConfiguration{}, dispatch.ErrGuildNotFound
	}

	p.mu.RLock()
	e, ok := p.cache[guildID]
	p.mu.RUnlock()
	if ok && p.now().Before(e.expires) {
		return e.cfg.Clone(), nil
	}

	cfg, err := p.load(guildID)
	if err != nil {
		return dispatch.GuildConfiguration{}, err
	}
	if p.ttl > 0 {
		p.mu.Lock()
		p.cache[guildID] = entry{cfg: cfg, expires: p.now().Add(p.ttl)}
		p.mu.Unlock()
	}
	return cfg.Clone(), nil
}

func (p *Provider) load(guildID string) (dispatch.GuildConfiguration, error) {
	settings, err := p.store.FetchGuildSettings(guildID)
	if errors.Is(err, database.ErrNotFound) {
		settings = p.newSettings(guildID)
		if err := p.store.UpsertGuildSettings(settings); err != nil {
			return dispatch.GuildConfiguration{}, fmt.Errorf("create settings for guild %s: %w", guildID, err)
		}
		core.LogInfoF("Created default settings for guild %s", guildID)
	} else if err != nil {
		return dispatch.GuildConfiguration{}, err
	}

	states, err := p.store.FetchModuleStates(guildID)
	if err != nil {
		return dispatch.GuildConfiguration{}, err
	}
	modules := map[dispatch.Module]bool{}
	for _, m := range dispatch.Modules() {
		modules[m] = true
	}
	for _, s := range states {
		if m, ok := dispatch.ParseModule(s.Module); ok {
			modules[m] = s.Enabled
		}
	}

	return dispatch.GuildConfiguration{
		GuildID:               guildID,
		Prefix:                settings.Prefix,
		MentionPrefix:         settings.MentionPrefix,
		EnabledModules:        modules,
		ShowModuleErrors:      settings.ShowModuleErrors,
		ShowPermissionErrors:  settings.ShowPermissionErrors,
		DeleteCommandMessages: settings.DeleteCommandMessages,
		UseEmbeds:             settings.UseEmbeds,
	}, nil
}

func (p *Provider) newSettings(guildID string) *database.GuildSettings {
	return &database.GuildSettings{
		GuildID:               guildID,
		Prefix:                p.defaults.Prefix,
		MentionPrefix:         p.defaults.MentionPrefix,
		ShowModuleErrors:      p.defaults.ShowModuleErrors,
		ShowPermissionErrors:  p.defaults.ShowPermissionErrors,
		DeleteCommandMessages: p.defaults.DeleteCommandMessages,
		UseEmbeds:             p.defaults.UseEmbeds,
	}
}

// Update applies fn to the guild's stored settings and saves them.
func (p *Provider) Update(guildID string, fn func(s *database.GuildSettings)) error {
	settings, err := p.store.FetchGuildSettings(guildID)
	if errors.Is(err, database.ErrNotFound) {
		settings = p.newSettings(guildID)
	} else if err != nil {
		return err
	}
	fn(settings)
	settings.GuildID = guildID
	if err := p.store.UpsertGuildSettings(settings); err != nil {
		return err
	}
	p.Invalidate(guildID)
	return nil
}

func (p *Provider) SetModuleEnabled(guildID string, module dispatch.Module, enabled bool) error {
	if err := p.store.SetModuleEnabled(guildID, module.String(), enabled); err != nil {
		return err
	}
	p.Invalidate(guildID)
	return nil
}

func (p *Provider) Invalidate(guildID string) {
	p.mu.Lock()
	delete(p.cache, guildID)
	p.mu.Unlock()
}
