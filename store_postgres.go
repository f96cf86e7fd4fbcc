package main

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db  *sql.DB
	dsn string
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	d, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	p := &PostgresStore{db: d, dsn: dsn}
	// schema is owned by migrations; just verify connectivity
	if err := p.db.Ping(); err != nil {
		d.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresStore) GetAccount(email string) (*Account, error) {
	row := p.db.QueryRow(`SELECT email,hashed_password,name,company,api_key,created_at,updated_at FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (p *PostgresStore) PutAccount(a *Account) error {
	_, err := p.db.Exec(`INSERT INTO accounts(email,hashed_password,name,company,api_key,created_at,updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (email) DO UPDATE SET
			hashed_password=EXCLUDED.hashed_password,
			name=EXCLUDED.name,
			company=EXCLUDED.company,
			api_key=EXCLUDED.api_key,
			created_at=EXCLUDED.created_at,
			updated_at=EXCLUDED.updated_at`,
		a.Email, a.HashedPassword, a.Name, a.Company, a.APIKey,
		a.CreatedAt.UTC().Format(time.RFC3339Nano), a.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (p *PostgresStore) Close() error { return p.db.Close() }
func (p *PostgresStore) Ping() bool   { return p.db.Ping() == nil }
