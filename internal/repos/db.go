package repos

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"swapboard/internal/domain"
)

// tsLayout is fixed width so created_at sorts lexicographically.
const tsLayout = "2006-01-02T15:04:05.000000Z"

func now() string { return time.Now().UTC().Format(tsLayout) }

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers anyway; one connection also keeps
	// ":memory:" databases and the foreign_keys pragma alive.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Ads; *_fold columns hold Unicode-lowercased copies for case-insensitive lookups
CREATE TABLE IF NOT EXISTS ads(
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL CHECK (title <> ''),
  description TEXT NOT NULL CHECK (description <> ''),
  image_url TEXT,
  category TEXT NOT NULL CHECK (category <> ''),
  condition TEXT NOT NULL CHECK (condition IN ('new','used','broken')),
  title_fold TEXT NOT NULL,
  description_fold TEXT NOT NULL,
  category_fold TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ads_owner      ON ads(owner_id);
CREATE INDEX IF NOT EXISTS idx_ads_category   ON ads(category_fold);
CREATE INDEX IF NOT EXISTS idx_ads_condition  ON ads(condition);
CREATE INDEX IF NOT EXISTS idx_ads_created_at ON ads(created_at);

-- Exchange proposals
CREATE TABLE IF NOT EXISTS proposals(
  id TEXT PRIMARY KEY,
  ad_sender   TEXT NOT NULL REFERENCES ads(id) ON DELETE CASCADE,
  ad_receiver TEXT NOT NULL REFERENCES ads(id) ON DELETE CASCADE,
  comment TEXT NOT NULL CHECK (comment <> ''),
  comment_fold TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
  created_at TEXT NOT NULL,
  CHECK (ad_sender <> ad_receiver),
  UNIQUE (ad_sender, ad_receiver)
);
CREATE INDEX IF NOT EXISTS idx_proposals_receiver ON proposals(ad_receiver);
CREATE INDEX IF NOT EXISTS idx_proposals_status   ON proposals(status);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures demo USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	users := []u{
		{ID: "u-alice", Email: "alice@swapboard.test", Name: "alice", Role: domain.RoleUser},
		{ID: "u-bob", Email: "bob@swapboard.test", Name: "bob", Role: domain.RoleUser},
		{ID: "u-carol", Email: "carol@swapboard.test", Name: "carol", Role: domain.RoleUser},
		{ID: "u-admin", Email: "admin@swapboard.test", Name: "admin", Role: domain.RoleAdmin},
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE id IN ('u-alice','u-bob','u-carol','u-admin')`); err != nil {
		return err
	}
	if n == len(users) {
		return nil
	}
	log.Println("[seed] inserting demo users")

	// One hash for all demo accounts; bcrypt at cost 12 is slow.
	h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 12)
	if err != nil {
		return err
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, string(h), x.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// isUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFound maps sql.ErrNoRows onto the domain error; other errors pass through.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s", msg)
	}
	return err
}

// likeEscape escapes LIKE wildcards; queries use ESCAPE '\'.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
