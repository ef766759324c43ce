package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and accounts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS app_users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			owner_user_id BIGINT NOT NULL REFERENCES app_users(id) ON DELETE CASCADE,
			balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS accounts_owner_idx ON accounts (owner_user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const userColumns = `id, username, email, password_hash, role, is_admin, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.AppUser) (models.AppUser, error) {
	const query = `
	INSERT INTO app_users (username, email, password_hash, role, is_admin)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns + `;`
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role, user.IsAdmin)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.AppUser{}, storage.ErrAlreadyExists
		}
		return models.AppUser{}, err
	}
	return created, nil
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// SearchUsers returns users whose username contains the query. The query is
// bound as a parameter, never interpolated.
func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.AppUser, error) {
	const stmt = `
	SELECT ` + userColumns + ` FROM app_users
	WHERE username ILIKE '%' || $1 || '%'
	ORDER BY id;`
	rows, err := s.pool.Query(ctx, stmt, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users ORDER BY id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// DeleteUser removes a user row by id.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM app_users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const accountColumns = `id, owner_user_id, balance::text, version, created_at`

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
	INSERT INTO accounts (owner_user_id, balance)
	VALUES ($1, $2::numeric)
	RETURNING ` + accountColumns + `;`
	row := s.pool.QueryRow(ctx, query, account.OwnerUserID, account.Balance.String())
	return scanAccount(row)
}

// FindAccountByID fetches an account by id.
func (s *Store) FindAccountByID(ctx context.Context, id int64) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

// ListAccountsByOwner returns the accounts owned by the user.
func (s *Store) ListAccountsByOwner(ctx context.Context, ownerUserID int64) ([]models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE owner_user_id = $1 ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// UpdateAccountBalance commits the new balance only if the stored version
// still matches expectedVersion, bumping the version on success.
func (s *Store) UpdateAccountBalance(ctx context.Context, id int64, balance decimal.Decimal, expectedVersion int64) (models.Account, error) {
	const query = `
	UPDATE accounts
	SET balance = $2::numeric, version = version + 1
	WHERE id = $1 AND version = $3
	RETURNING ` + accountColumns + `;`
	account, err := scanAccount(s.pool.QueryRow(ctx, query, id, balance.String(), expectedVersion))
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Account{}, err
	}
	// No row matched: distinguish a missing account from a stale version.
	if _, findErr := s.FindAccountByID(ctx, id); findErr != nil {
		return models.Account{}, findErr
	}
	return models.Account{}, storage.ErrVersionConflict
}

func scanUser(row pgx.Row) (models.AppUser, error) {
	var user models.AppUser
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AppUser{}, storage.ErrNotFound
		}
		return models.AppUser{}, err
	}
	return user, nil
}

func collectUsers(rows pgx.Rows) ([]models.AppUser, error) {
	var out []models.AppUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	var balance string
	err := row.Scan(&account.ID, &account.OwnerUserID, &balance, &account.Version, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	account.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("parse balance: %w", err)
	}
	return account, nil
}
