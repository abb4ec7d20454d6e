package database

import (
	"database/sql"

	"GuildBot/core"

	"github.com/jmoiron/sqlx"
)

type TargetType string

const (
	TargetRole TargetType = "role"
	TargetUser TargetType = "user"
)

// PermissionGrant gives a role or a user one permission node (or wildcard) within a guild.
type PermissionGrant struct {
	Id         int64      `db:"id"`
	GuildID    string     `db:"guild_id"`
	TargetType TargetType `db:"target_type"`
	TargetID   string     `db:"target_id"`
	Node       string     `db:"node"`
}

func (d *DB) FetchPermissionGrants(guildID string) ([]PermissionGrant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var grants []PermissionGrant
	err := d.db.Select(&grants, "SELECT * FROM permission_grants WHERE guild_id=? ORDER BY target_type, target_id, node", guildID)
	if err != nil {
		return nil, notFound(err, "permission grants "+guildID)
	}
	return grants, nil
}

// AddPermissionGrant reports false when the grant already existed.
func (d *DB) AddPermissionGrant(g PermissionGrant) (bool, error) {
	res, err := d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.Exec(`
			INSERT OR IGNORE INTO permission_grants (guild_id, target_type, target_id, node) VALUES (?, ?, ?, ?)
		`, g.GuildID, g.TargetType, g.TargetID, g.Node)
	})
	if err != nil {
		core.LogErrorF("Failed to add permission %s for %s %s: %s", g.Node, g.TargetType, g.TargetID, err)
		return false, err
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// RemovePermissionGrant reports false when there was nothing to remove.
func (d *DB) RemovePermissionGrant(g PermissionGrant) (bool, error) {
	res, err := d.executeAndCommit(func(tx *sqlx.Tx) (sql.Result, error) {
		return tx.Exec(`
			DELETE FROM permission_grants WHERE guild_id = ? AND target_type = ? AND target_id = ? AND node = ?
		`, g.GuildID, g.TargetType, g.TargetID, g.Node)
	})
	if err != nil {
		core.LogErrorF("Failed to remove permission %s for %s %s: %s", g.Node, g.TargetType, g.TargetID, err)
		return false, err
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}
