package database

import (
	"database/sql"
	"strings"
	"time"

	"GuildBot/core"

	"github.com/jmoiron/sqlx"
)

// Tag is a guild-scoped text snippet recalled by name.
type Tag struct {
	GuildID   string `db:"guild_id"`
	Name      string `db:"name"`
	Value     string `db:"value"`
	AuthorID  string `db:"author_id"`
	CreatedAt int64  `db:"created_at"`
}

func (d *DB) FetchTag(guildID, name string) (*Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tag := Tag{}
	err := d.db.Get(&tag, "SELECT * FROM tags WHERE guild_id=? AND name=?", guildID, strings.ToLower(name))
	if err != nil {
		return nil, notFound(err, "tag "+name)
	}
	return &tag, nil
}

func (d *DB) FetchTags(guildID string) ([]Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var tags []Tag
	err := d.db.Select(&tags, "SELECT * FROM tags WHERE guild_id=? ORDER BY name ASC", guildID)
	if err != nil {
		return nil, notFound(err, "tags "+guildID)
	}
	return tags, nil
}

// UpsertTag stores a tag under its lower-cased name and reports whether it was new.
func (d *DB) UpsertTag(t Tag) (bool, error) {
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	t.Name = strings.ToLower(t.Name)

	_, err := d.FetchTag(t.GuildID, t.Name)
	isNew := err != nil

	_, err = d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.NamedExec(`
			INSERT INTO tags (guild_id, name, value, author_id, created_at)
			VALUES (:guild_id, :name, :value, :author_id, :created_at)
			ON CONFLICT(guild_id, name) DO UPDATE SET
				value = excluded.value,
				author_id = excluded.author_id
		`, t)
	})
	if err != nil {
		core.LogErrorF("Failed to save tag %s for %s: %s", t.Name, t.GuildID, err)
		return false, err
	}
	return isNew, nil
}

func (d *DB) DeleteTag(guildID, name string) (bool, error) {
	res, err := d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.Exec("DELETE FROM tags WHERE guild_id = ? AND name = ?", guildID, strings.ToLower(name))
	})
	if err != nil {
		core.LogErrorF("Failed to delete tag %s for %s: %s", name, guildID, err)
		return false, err
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}
