// Package bunstore persists the bearer credential in a sqlite database
// through bun. It is the durable TokenStore for clients that already carry a
// local database, keyed by a fixed credential name.
package bunstore

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DefaultName is the fixed key the credential is stored under.
const DefaultName = "access_token"

// Credential is the single row model.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// TokenStore implements the session token store contract on bun.
type TokenStore struct {
	db   *bun.DB
	name string
}

// Open creates a sqlite backed store at dsn (e.g. a file path or
// "file::memory:?cache=shared") and ensures the credentials table exists.
func Open(dsn string) (*TokenStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to open credential database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return New(db, DefaultName)
}

// New wraps an existing bun database. name keys the credential row and
// defaults to DefaultName.
func New(db *bun.DB, name string) (*TokenStore, error) {
	if name == "" {
		name = DefaultName
	}

	store := &TokenStore{db: db, name: name}
	if err := store.migrate(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *TokenStore) migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create credentials table")
	}
	return nil
}

// Get returns the stored credential. A missing row is a normal state.
func (s *TokenStore) Get() (string, bool, error) {
	cred := &Credential{}
	err := s.db.NewSelect().
		Model(cred).
		Where("name = ?", s.name).
		Scan(context.Background())
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read credential")
	}
	if cred.Value == "" {
		return "", false, nil
	}
	return cred.Value, true, nil
}

// Set upserts the credential.
func (s *TokenStore) Set(token string) error {
	cred := &Credential{
		Name:      s.name,
		Value:     token,
		UpdatedAt: time.Now(),
	}

	if _, err := s.db.NewInsert().
		Model(cred).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(context.Background()); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to store credential")
	}
	return nil
}

// Clear removes the credential. Clearing an absent credential is a no-op.
func (s *TokenStore) Clear() error {
	if _, err := s.db.NewDelete().
		Model((*Credential)(nil)).
		Where("name = ?", s.name).
		Exec(context.Background()); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to clear credential")
	}
	return nil
}

// Close releases the underlying database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
