package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/codeauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/codeauth/internal/dbx"
)

// Mirror is a secondary copy of the credential.
type Mirror interface {
	Save(ctx context.Context, c Credential) error
	Load(ctx context.Context) (Credential, bool, error)
	Wipe(ctx context.Context) error
}

const (
	keyToken = "session.token"
	keyEmail = "session.email"
)

// SQLiteMirror keeps the credential in the metadata table of the session
// database opened by storage.Open.
type SQLiteMirror struct {
	db *sql.DB
}

func NewSQLiteMirror(db *sql.DB) *SQLiteMirror {
	return &SQLiteMirror{db: db}
}

func (m *SQLiteMirror) Save(ctx context.Context, c Credential) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(c.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyEmail, []byte(c.Email))
	})
}

func (m *SQLiteMirror) Load(ctx context.Context) (Credential, bool, error) {
	repo := metadata.NewSQLiteRepository(m.db)

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return Credential{}, false, fmt.Errorf("load session token: %w", err)
	}
	if len(token) == 0 {
		return Credential{}, false, nil
	}

	email, err := repo.Get(ctx, keyEmail)
	if err != nil {
		return Credential{}, false, fmt.Errorf("load session email: %w", err)
	}

	return Credential{Token: string(token), Email: string(email)}, true, nil
}

func (m *SQLiteMirror) Wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keyToken, keyEmail)
	})
}
