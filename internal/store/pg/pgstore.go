package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"timetrack.org/internal/auth"
	"timetrack.org/internal/tracker"
)

const pgErrUniqueViolation = "23505"

// Store is the PostgreSQL implementation of tracker.Store and
// auth.Directory. The database arbitrates the username/email uniqueness
// invariant through its constraints; this layer only translates
// violations into domain errors.
type Store struct {
	db *sql.DB
}

var _ tracker.Store = (*Store)(nil)
var _ auth.Directory = (*Store)(nil)

// Open connects to PostgreSQL via the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection (used by tests and cmd wiring).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) CreateAccount(ctx context.Context, account *tracker.Account) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		insert into accounts (id, username, password_hash, first_name, last_name, email, role, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`, account.ID, account.Username, account.PasswordHash, account.FirstName,
		account.LastName, account.Email, account.Role, now)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return &tracker.DuplicateError{Field: field}
		}
		return err
	}
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (s *Store) FindAccount(ctx context.Context, id string) (*tracker.Account, error) {
	account, err := s.scanAccount(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, first_name, last_name, email, role, created_at, updated_at
		from accounts where id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadActivities(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*tracker.Account, error) {
	account, err := s.scanAccount(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, first_name, last_name, email, role, created_at, updated_at
		from accounts where username = $1
	`, username))
	if err != nil {
		return nil, err
	}
	if err := s.loadActivities(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*tracker.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, username, password_hash, first_name, last_name, email, role, created_at, updated_at
		from accounts order by id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*tracker.Account
	index := make(map[string]*tracker.Account)
	for rows.Next() {
		var a tracker.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FirstName,
			&a.LastName, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Activities = []tracker.Activity{}
		accounts = append(accounts, &a)
		index[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	actRows, err := s.db.QueryContext(ctx, `
		select id, account_id, name, duration, activity_date, created_at, updated_at
		from activities order by account_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer actRows.Close()
	for actRows.Next() {
		var act tracker.Activity
		var accountID string
		if err := actRows.Scan(&act.ID, &accountID, &act.Name, &act.Duration,
			&act.Date, &act.CreatedAt, &act.UpdatedAt); err != nil {
			return nil, err
		}
		if owner, ok := index[accountID]; ok {
			owner.Activities = append(owner.Activities, act)
		}
	}
	return accounts, actRows.Err()
}

func (s *Store) AddActivity(ctx context.Context, accountID string, activity *tracker.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the owner row so concurrent attaches serialize on position.
	var ok bool
	err = tx.QueryRowContext(ctx, `select true from accounts where id = $1 for update`, accountID).Scan(&ok)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.ErrNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		insert into activities (id, account_id, name, duration, activity_date, position, created_at, updated_at)
		values ($1, $2, $3, $4, $5,
			(select coalesce(max(position) + 1, 0) from activities where account_id = $2),
			$6, $6)
	`, activity.ID, accountID, activity.Name, activity.Duration, activity.Date, now)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `update accounts set updated_at = $2 where id = $1`, accountID, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	activity.CreatedAt = now
	activity.UpdatedAt = now
	return nil
}

func (s *Store) RemoveActivity(ctx context.Context, accountID, activityID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		delete from activities where id = $1 and account_id = $2
	`, activityID, accountID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `select true from accounts where id = $1`, accountID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return tracker.ErrNotFound
		}
		if err != nil {
			return err
		}
		return tracker.ErrActivityNotFound
	}
	if _, err := tx.ExecContext(ctx, `update accounts set updated_at = $2 where id = $1`,
		accountID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) UpdateActivity(ctx context.Context, accountID, activityID string, patch tracker.ActivityPatch) error {
	res, err := s.db.ExecContext(ctx, `
		update activities set
			name = coalesce($3, name),
			duration = coalesce($4, duration),
			activity_date = coalesce($5, activity_date),
			updated_at = $6
		where id = $1 and account_id = $2
	`, activityID, accountID, nullable(patch.Activity), nullable(patch.ActivityDuration),
		nullable(patch.ActivityDate), time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tracker.ErrActivityNotFound
	}
	return nil
}

// FindIdentity implements auth.Directory with a single-row lookup; the
// activity list is not needed for authentication.
func (s *Store) FindIdentity(ctx context.Context, id string) (auth.Identity, error) {
	return s.scanIdentity(s.db.QueryRowContext(ctx, `
		select id, username, email, role, password_hash from accounts where id = $1
	`, id))
}

// FindIdentityByUsername implements auth.Directory.
func (s *Store) FindIdentityByUsername(ctx context.Context, username string) (auth.Identity, error) {
	return s.scanIdentity(s.db.QueryRowContext(ctx, `
		select id, username, email, role, password_hash from accounts where username = $1
	`, username))
}

func (s *Store) scanAccount(row *sql.Row) (*tracker.Account, error) {
	var a tracker.Account
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FirstName,
		&a.LastName, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracker.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Activities = []tracker.Activity{}
	return &a, nil
}

func (s *Store) scanIdentity(row *sql.Row) (auth.Identity, error) {
	var id auth.Identity
	err := row.Scan(&id.ID, &id.Username, &id.Email, &id.Role, &id.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Identity{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Identity{}, err
	}
	return id, nil
}

func (s *Store) loadActivities(ctx context.Context, account *tracker.Account) error {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, duration, activity_date, created_at, updated_at
		from activities where account_id = $1 order by position
	`, account.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var act tracker.Activity
		if err := rows.Scan(&act.ID, &act.Name, &act.Duration, &act.Date,
			&act.CreatedAt, &act.UpdatedAt); err != nil {
			return err
		}
		account.Activities = append(account.Activities, act)
	}
	return rows.Err()
}

// uniqueField maps a unique-constraint violation to the offending field
// name used in client-facing validation messages.
func uniqueField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrUniqueViolation {
		return "", false
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	default:
		return "field", true
	}
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
