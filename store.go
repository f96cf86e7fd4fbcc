package main

import (
	"database/sql"
	"sync"
	"time"
)

// Store is the durable mapping from email to account record. GetAccount
// returns (nil, nil) when no record exists. PutAccount upserts the full
// record keyed by email, overwriting whatever was there; there are no
// partial updates, so callers read-modify-write the whole account.
// Concurrent writers racing on one email are last-write-wins.
type Store interface {
	GetAccount(email string) (*Account, error)
	PutAccount(a *Account) error
	Close() error
	Ping() bool
}

// Memory store

type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: map[string]Account{}}
}

func (m *MemoryStore) GetAccount(email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[email]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *MemoryStore) PutAccount(a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.Email] = *a
	return nil
}

func (m *MemoryStore) Close() error { return nil }
func (m *MemoryStore) Ping() bool   { return true }

// SQLite store

type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: d, path: path}
	if err := s.init(); err != nil {
		d.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		email TEXT PRIMARY KEY,
		hashed_password TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		api_key TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteStore) GetAccount(email string) (*Account, error) {
	row := s.db.QueryRow(`SELECT email,hashed_password,name,company,api_key,created_at,updated_at FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (s *SQLiteStore) PutAccount(a *Account) error {
	_, err := s.db.Exec(`INSERT INTO accounts(email,hashed_password,name,company,api_key,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(email) DO UPDATE SET
			hashed_password=excluded.hashed_password,
			name=excluded.name,
			company=excluded.company,
			api_key=excluded.api_key,
			created_at=excluded.created_at,
			updated_at=excluded.updated_at`,
		a.Email, a.HashedPassword, a.Name, a.Company, a.APIKey,
		a.CreatedAt.UTC().Format(time.RFC3339Nano), a.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
func (s *SQLiteStore) Ping() bool   { return s.db.Ping() == nil }

// scanAccount decodes one account row. Timestamps are stored as RFC 3339
// text in every backend so records stay portable between them.
func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var created, updated string
	if err := row.Scan(&a.Email, &a.HashedPassword, &a.Name, &a.Company, &a.APIKey, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, err
	}
	return &a, nil
}
