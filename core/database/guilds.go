package database

import (
	"database/sql"

	"GuildBot/core"

	"github.com/jmoiron/sqlx"
)

// GuildSettings is the stored row behind a guild's configuration.
type GuildSettings struct {
	GuildID               string `db:"guild_id"`
	Prefix                string `db:"prefix"`
	MentionPrefix         bool   `db:"mention_prefix"`
	ShowModuleErrors      bool   `db:"show_module_errors"`
	ShowPermissionErrors  bool   `db:"show_permission_errors"`
	DeleteCommandMessages bool   `db:"delete_command_messages"`
	UseEmbeds             bool   `db:"use_embeds"`
}

// ModuleState records an explicit module toggle. Modules without a row keep their default.
type ModuleState struct {
	GuildID string `db:"guild_id"`
	Module  string `db:"module"`
	Enabled bool   `db:"enabled"`
}

// FetchGuildSettings returns ErrNotFound for guilds that were never saved.
func (d *DB) FetchGuildSettings(guildID string) (*GuildSettings, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	settings := GuildSettings{}
	err := d.db.Get(&settings, "SELECT * FROM guild_settings WHERE guild_id=?", guildID)
	if err != nil {
		return nil, notFound(err, "guild settings "+guildID)
	}
	return &settings, nil
}

func (d *DB) UpsertGuildSettings(s *GuildSettings) error {
	_, err := d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.NamedExec(`
			INSERT INTO guild_settings (guild_id, prefix, mention_prefix, show_module_errors, show_permission_errors, delete_command_messages, use_embeds)
			VALUES (:guild_id, :prefix, :mention_prefix, :show_module_errors, :show_permission_errors, :delete_command_messages, :use_embeds)
			ON CONFLICT(guild_id) DO UPDATE SET
				prefix = excluded.prefix,
				mention_prefix = excluded.mention_prefix,
				show_module_errors = excluded.show_module_errors,
				show_permission_errors = excluded.show_permission_errors,
				delete_command_messages = excluded.delete_command_messages,
				use_embeds = excluded.use_embeds
		`, s)
	})
	if err != nil {
		core.LogErrorF("Failed to upsert guild settings for %s: %s", s.GuildID, err)
	}
	return err
}

func (d *DB) FetchModuleStates(guildID string) ([]ModuleState, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var states []ModuleState
	err := d.db.Select(&states, "SELECT * FROM guild_modules WHERE guild_id=? ORDER BY module ASC", guildID)
	if err != nil {
		return nil, notFound(err, "module states "+guildID)
	}
	return states, nil
}

func (d *DB) SetModuleEnabled(guildID, module string, enabled bool) error {
	_, err := d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.Exec(`
			INSERT INTO guild_modules (guild_id, module, enabled) VALUES (?, ?, ?)
			ON CONFLICT(guild_id, module) DO UPDATE SET enabled = excluded.enabled
		`, guildID, module, enabled)
	})
	if err != nil {
		core.LogErrorF("Failed to set module %s for %s: %s", module, guildID, err)
	}
	return err
}
