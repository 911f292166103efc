package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agritrack/agritrack-cli/internal/client/session/migrations"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Keys of the session key/value table.
const (
	keyUsername     = "username"
	keyToken        = "token"
	keyRoles        = "roles"
	keyStageProfile = "stage_profile"
	keyLocation     = "location"
	keyFarmID       = "associated_farm_id"
)

// Store persists the session in a local SQLite database, the terminal
// equivalent of the browser's localStorage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at dsn and applies the
// embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the whole session in one transaction, replacing whatever was
// there before.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	roles, err := json.Marshal(sess.Roles)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		values := map[string]string{
			keyUsername:     sess.Username,
			keyToken:        sess.Token,
			keyRoles:        string(roles),
			keyStageProfile: sess.StageProfile,
			keyLocation:     sess.Location,
			keyFarmID:       sess.AssociatedFarmID,
		}
		for key, value := range values {
			if err := setValue(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the stored session, or nil when none is stored. A stored
// session whose token has expired is cleared and reported via
// common.ErrTokenExpired so the caller can ask the user to log in again.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	token, err := s.getValue(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	sess := &Session{Token: token}
	if sess.Username, err = s.getValue(ctx, keyUsername); err != nil {
		return nil, err
	}
	if sess.StageProfile, err = s.getValue(ctx, keyStageProfile); err != nil {
		return nil, err
	}
	if sess.Location, err = s.getValue(ctx, keyLocation); err != nil {
		return nil, err
	}
	if sess.AssociatedFarmID, err = s.getValue(ctx, keyFarmID); err != nil {
		return nil, err
	}

	rawRoles, err := s.getValue(ctx, keyRoles)
	if err != nil {
		return nil, err
	}
	if rawRoles != "" {
		if err := json.Unmarshal([]byte(rawRoles), &sess.Roles); err != nil {
			return nil, fmt.Errorf("decode stored roles: %w", err)
		}
	}

	if sess.TokenExpired(s.now()) {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, common.ErrTokenExpired
	}
	return sess, nil
}

// Clear wipes the stored session (logout).
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) getValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session[%s]: %w", key, err)
	}
	return value, nil
}

func setValue(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set session[%s]: %w", key, err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}
