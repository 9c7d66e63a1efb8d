package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"friendgraph/internal/logging"
	"friendgraph/internal/social"
)

// DB is an append-only SQLite log of store activity. It is an audit
// trail: nothing reads it back into a store.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// every pooled connection to ":memory:" would get its own database
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS events (
	  id TEXT PRIMARY KEY,
	  ts INTEGER NOT NULL,
	  kind TEXT NOT NULL,
	  actor TEXT,
	  payload TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`)
	return err
}

// Entry is one journaled event.
type Entry struct {
	ID    string
	TS    time.Time
	Kind  string
	Actor string
	// Payload is the JSON document stored with the event.
	Payload string
}

// Append stores an event under a fresh UUID and returns the id.
func (d *DB) Append(ctx context.Context, ts time.Time, kind, actor string, payload any) (string, error) {
	id := uuid.NewString()
	return id, d.AppendRef(ctx, id, ts, kind, actor, payload)
}

// AppendRef stores an event under a caller-chosen id. Re-appending an
// existing id is a no-op.
func (d *DB) AppendRef(ctx context.Context, id string, ts time.Time, kind, actor string, payload any) error {
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO events(id, ts, kind, actor, payload) VALUES(?,?,?,?,?) ON CONFLICT(id) DO NOTHING`,
		id, ts.UnixNano(), kind, actor, string(pb))
	return err
}

// LoadRange returns events in [start, end), optionally filtered by kind.
func (d *DB) LoadRange(ctx context.Context, start, end time.Time, kind string) ([]Entry, error) {
	var rows *sql.Rows
	var err error
	if kind == "" {
		rows, err = d.sql.QueryContext(ctx, `SELECT id, ts, kind, COALESCE(actor,''), COALESCE(payload,'') FROM events WHERE ts>=? AND ts<? ORDER BY ts, rowid`, start.UnixNano(), end.UnixNano())
	} else {
		rows, err = d.sql.QueryContext(ctx, `SELECT id, ts, kind, COALESCE(actor,''), COALESCE(payload,'') FROM events WHERE ts>=? AND ts<? AND kind=? ORDER BY ts, rowid`, start.UnixNano(), end.UnixNano(), kind)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Kind, &e.Actor, &e.Payload); err != nil {
			return nil, err
		}
		e.TS = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByKind returns the number of stored events per kind.
func (d *DB) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

// Recorder returns an observer that journals every store event. Write
// failures are logged and otherwise ignored so the store keeps serving.
func Recorder(db *DB) social.Observer {
	return social.ObserverFunc(func(e social.Event) {
		actor := ""
		if len(e.Users) > 0 {
			actor = e.Users[0]
		}
		payload := map[string]any{}
		switch e.Kind {
		case social.EventFriendshipAdded:
			payload["users"] = e.Users
		case social.EventPostCreated:
			payload["timestamp"] = e.Timestamp
		case social.EventRejected:
			if e.Err != nil {
				payload["op"] = e.Err.Op
				payload["kind"] = string(e.Err.Kind)
				actor = e.Err.User
			}
		}
		if _, err := db.Append(context.Background(), e.At, string(e.Kind), actor, payload); err != nil {
			logging.Error("journal_append_error", map[string]any{"kind": string(e.Kind), "error": err.Error()})
		}
	})
}
