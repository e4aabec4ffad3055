// Package persist snapshots the authoritative tables into a local sqlite
// file. The in-memory tables stay authoritative; this layer only replays
// them across restarts. Rows are key-addressable JSON documents, not a
// queryable schema. Writes are applied by a single goroutine so table locks
// never wait on disk.
package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/y4my4my4m/nexus-sync/internal/config"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/store"
)

type DB struct {
	sugar *zap.SugaredLogger
	db    *sql.DB
	queue chan func(*sql.DB)
	done  chan struct{}
}

func Open(sugar *zap.SugaredLogger, cfg config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}

	// sqlite returns busy errors under concurrent writers otherwise
	db.SetMaxOpenConns(1)

	if err := setPragmaValues(db); err != nil {
		return nil, err
	}
	if err := setupTables(db); err != nil {
		return nil, err
	}

	d := &DB{
		sugar: sugar,
		db:    db,
		queue: make(chan func(*sql.DB), 1024),
		done:  make(chan struct{}),
	}
	go d.writer()
	return d, nil
}

func (d *DB) writer() {
	defer close(d.done)
	for op := range d.queue {
		op(d.db)
	}
}

// Close drains pending writes and closes the file.
func (d *DB) Close() error {
	close(d.queue)
	<-d.done
	return d.db.Close()
}

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// WAL and relaxed sync massively improve sqlite write throughput
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}
	return nil
}

func setupTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			hash BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS forums (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS servers (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS channel_messages (
			id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS direct_messages (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS invites (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			data TEXT NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// The credential hash is carried in its own column because the profile's
// json tags deliberately exclude it.
func (d *DB) SaveUser(profile models.UserProfile) {
	hash := profile.Hash
	profile.Hash = nil
	d.upsert("INSERT INTO users (id, data, hash) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data, hash = excluded.hash",
		profile, func(data []byte) []any { return []any{profile.ID.String(), string(data), hash} })
}

func (d *DB) SaveForum(forum models.Forum) {
	d.upsert("INSERT OR REPLACE INTO forums (id, data) VALUES (?, ?)",
		forum, func(data []byte) []any { return []any{forum.ID.String(), string(data)} })
}

func (d *DB) SaveServer(server models.Server) {
	d.upsert("INSERT OR REPLACE INTO servers (id, data) VALUES (?, ?)",
		server, func(data []byte) []any { return []any{server.ID.String(), string(data)} })
}

func (d *DB) SaveChannelMessage(msg models.ChannelMessage) {
	d.upsert("INSERT OR REPLACE INTO channel_messages (id, channel_id, timestamp, data) VALUES (?, ?, ?, ?)",
		msg, func(data []byte) []any {
			return []any{msg.ID.String(), msg.ChannelID.String(), msg.Timestamp, string(data)}
		})
}

func (d *DB) SaveDirectMessage(msg models.DirectMessage) {
	d.upsert("INSERT OR REPLACE INTO direct_messages (id, timestamp, data) VALUES (?, ?, ?)",
		msg, func(data []byte) []any { return []any{msg.ID.String(), msg.Timestamp, string(data)} })
}

func (d *DB) SaveInvite(invite models.ServerInvite) {
	d.upsert("INSERT OR REPLACE INTO invites (id, data) VALUES (?, ?)",
		invite, func(data []byte) []any { return []any{invite.ID.String(), string(data)} })
}

func (d *DB) SaveNotification(notif models.Notification) {
	d.upsert("INSERT OR REPLACE INTO notifications (id, user_id, created_at, data) VALUES (?, ?, ?, ?)",
		notif, func(data []byte) []any {
			return []any{notif.ID.String(), notif.UserID.String(), notif.CreatedAt, string(data)}
		})
}

func (d *DB) upsert(query string, doc any, args func(data []byte) []any) {
	data, err := json.Marshal(doc)
	if err != nil {
		d.sugar.Errorf("marshaling %T for persistence: %v", doc, err)
		return
	}

	op := func(db *sql.DB) {
		if _, err := db.Exec(query, args(data)...); err != nil {
			d.sugar.Errorf("persisting %T: %v", doc, err)
		}
	}

	select {
	case d.queue <- op:
	default:
		d.sugar.Warn("persistence queue is full, dropping a write")
	}
}

// Load replays every persisted row into the tables. Runs at boot, before
// any connection is accepted.
func (d *DB) Load(st *store.Store) error {
	if err := d.loadUsers(st); err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM forums ORDER BY rowid", func(forum models.Forum) {
		st.Forums.Restore(forum)
	}); err != nil {
		return fmt.Errorf("loading forums: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM servers ORDER BY rowid", func(server models.Server) {
		st.Servers.Restore(server)
	}); err != nil {
		return fmt.Errorf("loading servers: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM channel_messages ORDER BY timestamp", func(msg models.ChannelMessage) {
		st.Messages.RestoreChannelMessage(msg)
	}); err != nil {
		return fmt.Errorf("loading channel messages: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM direct_messages ORDER BY timestamp", func(msg models.DirectMessage) {
		st.Messages.RestoreDirectMessage(msg)
	}); err != nil {
		return fmt.Errorf("loading direct messages: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM invites", func(invite models.ServerInvite) {
		st.Invites.Restore(invite)
	}); err != nil {
		return fmt.Errorf("loading invites: %w", err)
	}
	if err := loadDocs(d.db, "SELECT data FROM notifications ORDER BY created_at", func(notif models.Notification) {
		st.Notifications.Restore(notif)
	}); err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}
	return nil
}

func (d *DB) loadUsers(st *store.Store) error {
	rows, err := d.db.Query("SELECT data, hash FROM users")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		var hash []byte
		if err := rows.Scan(&data, &hash); err != nil {
			return err
		}

		var profile models.UserProfile
		if err := json.Unmarshal([]byte(data), &profile); err != nil {
			return err
		}
		profile.Hash = hash
		st.Users.Restore(profile)
	}
	return rows.Err()
}

func loadDocs[T any](db *sql.DB, query string, restore func(T)) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}

		var doc T
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return err
		}
		restore(doc)
	}
	return rows.Err()
}
