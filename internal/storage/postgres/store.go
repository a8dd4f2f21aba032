package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.ProfileStore = (*Store)(nil)
	_ storage.AccountStore = (*Store)(nil)
	_ storage.RoleChecker  = (*Store)(nil)
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

const profileColumns = `id::text, email, first_name, last_name, pu_total, pu_converted, auto_convert,
	carryover_usd, wallet_default, bybit_uid, btc_address, to_char(start_date, 'YYYY-MM-DD'), created_at`

// Store provides Postgres-backed access to accounts and profiles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and verifies the connection.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// FindAccountByEmail fetches the credentials row for an email, case-insensitively.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	const query = `
	SELECT id::text, email, role, password_hash, created_at
	FROM accounts
	WHERE lower(email) = lower($1)
	LIMIT 1;
	`
	var account models.Account
	err := s.pool.QueryRow(ctx, query, strings.TrimSpace(email)).
		Scan(&account.ID, &account.Email, &account.Role, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		return models.Account{}, mapError(err)
	}
	return account, nil
}

// CreateAccount inserts an account and its empty profile in one transaction.
func (s *Store) CreateAccount(ctx context.Context, account models.Account, profile models.Profile) (models.Account, error) {
	const insertAccount = `
	INSERT INTO accounts (email, role, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id::text, email, role, password_hash, created_at;
	`
	const insertProfile = `
	INSERT INTO profiles (id, email, first_name, last_name, wallet_default, bybit_uid, btc_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	if !models.ValidRole(account.Role) {
		return models.Account{}, fmt.Errorf("unknown role %q", account.Role)
	}

	var created models.Account
	err := s.withTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertAccount, account.Email, account.Role, account.PasswordHash).
			Scan(&created.ID, &created.Email, &created.Role, &created.PasswordHash, &created.CreatedAt)
		if err != nil {
			return err
		}
		walletDefault := profile.WalletDefault
		if walletDefault == "" {
			walletDefault = models.WalletBybitUID
		}
		_, err = tx.Exec(ctx, insertProfile, created.ID, created.Email, profile.FirstName, profile.LastName,
			string(walletDefault), profile.BybitUID, profile.BTCAddress)
		return err
	})
	if err != nil {
		return models.Account{}, mapError(err)
	}
	return created, nil
}

// IsAdmin evaluates the is_admin role predicate for a user.
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	if err := s.pool.QueryRow(ctx, `SELECT is_admin($1::uuid);`, userID).Scan(&isAdmin); err != nil {
		return false, mapError(err)
	}
	return isAdmin, nil
}

// OwnProfile fetches the dashboard projection of a user's own row.
func (s *Store) OwnProfile(ctx context.Context, userID string) (models.ProfileSummary, error) {
	const query = `
	SELECT first_name, last_name, pu_total, pu_converted, auto_convert, carryover_usd
	FROM profiles
	WHERE id = $1::uuid;
	`
	var summary models.ProfileSummary
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&summary.FirstName, &summary.LastName, &summary.PUTotal,
		&summary.PUConverted, &summary.AutoConvert, &summary.CarryoverUSD,
	)
	if err != nil {
		return models.ProfileSummary{}, mapError(err)
	}
	return summary, nil
}

// ListProfiles returns the newest profiles first, ties broken by id.
func (s *Store) ListProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > storage.MaxProfileRows {
		limit = storage.MaxProfileRows
	}
	query := `SELECT ` + profileColumns + `
	FROM profiles
	ORDER BY created_at DESC, id ASC
	LIMIT $1;`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0, limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile fetches a single profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1::uuid;`
	return scanProfile(s.pool.QueryRow(ctx, query, id))
}

// UpdateProfile writes the editable column subset and returns the stored row.
func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error) {
	query := `
	UPDATE profiles SET
		first_name = $2,
		last_name = $3,
		pu_total = $4,
		pu_converted = $5,
		auto_convert = $6,
		carryover_usd = $7,
		wallet_default = $8,
		bybit_uid = $9,
		btc_address = $10
	WHERE id = $1::uuid
	RETURNING ` + profileColumns + `;`

	row := s.pool.QueryRow(ctx, query, id,
		update.FirstName, update.LastName,
		update.PUTotal, update.PUConverted, update.AutoConvert, update.CarryoverUSD,
		string(update.WalletDefault), update.BybitUID, update.BTCAddress,
	)
	return scanProfile(row)
}

func (s *Store) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var profile models.Profile
	var walletDefault string
	err := row.Scan(
		&profile.ID, &profile.Email, &profile.FirstName, &profile.LastName,
		&profile.PUTotal, &profile.PUConverted, &profile.AutoConvert, &profile.CarryoverUSD,
		&walletDefault, &profile.BybitUID, &profile.BTCAddress, &profile.StartDate, &profile.CreatedAt,
	)
	if err != nil {
		return models.Profile{}, mapError(err)
	}
	profile.WalletDefault = models.WalletType(walletDefault)
	return profile, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return storage.ErrAlreadyExists
		case pgInvalidTextFormat:
			// malformed uuid: no row can match it
			return storage.ErrNotFound
		}
	}
	return err
}
