// Package capture records received OSC traffic in SQLite.
//
// Each recording session holds the packets received while it was active,
// together with the raw datagram bytes, so a capture can be replayed or
// inspected later without loss. The database runs in WAL mode and inserts
// retry on lock contention.
package capture

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dougfinl/osckit/osc"
)

// Store records packets into a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the capture database and initializes the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS packets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		received_at TEXT NOT NULL,
		peer        TEXT NOT NULL DEFAULT '',
		kind        TEXT NOT NULL,
		address     TEXT NOT NULL DEFAULT '',
		typetags    TEXT NOT NULL DEFAULT '',
		display     TEXT NOT NULL DEFAULT '',
		raw         BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_packets_session ON packets(session_id, id);
	CREATE INDEX IF NOT EXISTS idx_packets_address ON packets(address);
	`
	_, err := s.db.Exec(schema)
	return err
}

// retryOnContention runs a write with the default retry policy. Inserts go
// through this so a recording burst survives transient SQLite errors while
// queries run on other connections.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

// Session describes one recording session.
type Session struct {
	ID        string
	Label     string
	StartedAt time.Time
}

// Record is one captured packet. Raw holds the datagram exactly as it
// arrived on the wire.
type Record struct {
	ID         int64
	Session    string
	ReceivedAt time.Time
	Peer       string
	Kind       string
	Address    string
	TypeTags   string
	Display    string
	Raw        []byte
}

// BeginSession creates a new recording session and returns its ID.
func (s *Store) BeginSession(label string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO sessions (id, label, started_at) VALUES (?, ?, ?)`,
			id, label, now,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, label, started_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var startedStr string
		if err := rows.Scan(&sess.ID, &sess.Label, &startedStr); err != nil {
			return nil, err
		}
		var parseErr error
		sess.StartedAt, parseErr = time.Parse(time.RFC3339Nano, startedStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse started_at for session %s: %w", sess.ID, parseErr)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// RecordPacket stores one received packet under the given session. Returns
// the auto-generated row ID.
func (s *Store) RecordPacket(session string, p osc.Packet, raw []byte, peer string) (int64, error) {
	kind, address, typetags, display := describe(p)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var lastID int64
	err := retryOnContention(func() error {
		res, err := s.db.Exec(
			`INSERT INTO packets (session_id, received_at, peer, kind, address, typetags, display, raw)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			session, now, peer, kind, address, typetags, display, raw,
		)
		if err != nil {
			return err
		}
		lastID, err = res.LastInsertId()
		return err
	})
	return lastID, err
}

// Recent returns the most recently recorded packets, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, received_at, peer, kind, address, typetags, display, raw
		 FROM packets ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// BySession returns the packets of one session in the order they arrived.
func (s *Store) BySession(session string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, received_at, peer, kind, address, typetags, display, raw
		 FROM packets WHERE session_id = ? ORDER BY id ASC LIMIT ?`,
		session, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountPackets returns the total number of recorded packets.
func (s *Store) CountPackets() int64 {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM packets`).Scan(&count); err != nil {
		return 0
	}
	return count
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var receivedStr string
		if err := rows.Scan(&r.ID, &r.Session, &receivedStr, &r.Peer, &r.Kind,
			&r.Address, &r.TypeTags, &r.Display, &r.Raw); err != nil {
			return nil, err
		}
		var parseErr error
		r.ReceivedAt, parseErr = time.Parse(time.RFC3339Nano, receivedStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse received_at for packet %d: %w", r.ID, parseErr)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// describe extracts the queryable columns from a packet.
func describe(p osc.Packet) (kind, address, typetags, display string) {
	switch t := p.(type) {
	case *osc.Message:
		tags, _ := t.TypeTags()
		return "message", t.Address, tags, t.String()
	case *osc.Bundle:
		return "bundle", "", "", t.String()
	}
	return "packet", "", "", ""
}
