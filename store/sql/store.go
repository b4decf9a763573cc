package sql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	// Register the pgx database/sql driver. The mysql driver registers
	// itself via the import in mysql.go.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avisek/sessionauth/store"
)

// Store implements store.Store using a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	queries *dialectQueries
}

// Config holds SQL store configuration.
type Config struct {
	// Dialect specifies the database type (postgres, mysql).
	Dialect Dialect

	// DB is an existing database connection.
	// If provided, DSN is ignored.
	DB *sql.DB

	// DSN is the data source name for connecting to the database.
	DSN string

	// TablePrefix is the prefix for all table names.
	// Defaults to "sessionauth_" if empty.
	TablePrefix string

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
}

// New creates a new SQL store.
func New(cfg *Config) (*Store, error) {
	var db *sql.DB
	var err error

	if cfg.DB != nil {
		db = cfg.DB
	} else {
		driverName := getDriverName(cfg.Dialect)
		db, err = sql.Open(driverName, cfg.DSN)
		if err != nil {
			return nil, err
		}

		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	tablePrefix := cfg.TablePrefix
	if tablePrefix == "" {
		tablePrefix = defaultTablePrefix
	}

	return &Store{
		db:      db,
		dialect: cfg.Dialect,
		queries: getDialectQueries(cfg.Dialect, tablePrefix),
	}, nil
}

// getDriverName returns the driver name for the dialect.
func getDriverName(d Dialect) string {
	switch d {
	case MySQL:
		return "mysql"
	default:
		return "pgx"
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the database schema.
func (s *Store) Migrate(ctx context.Context) error {
	// Split schema by semicolon for multiple statements
	statements := strings.Split(s.queries.schema, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// CreateUser inserts a new user row with a fresh ID.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (*store.User, error) {
	now := time.Now()
	u := &store.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := s.db.ExecContext(ctx, s.queries.insertUser,
		u.ID,
		u.Email,
		u.HashedPassword,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if s.queries.isDuplicate(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, err
	}

	return u, nil
}

// FindUser retrieves a user by a single field predicate.
func (s *Store) FindUser(ctx context.Context, q store.Query) (*store.User, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var query string
	switch q.Field() {
	case store.FieldID:
		query = s.queries.selectUserByID
	case store.FieldEmail:
		query = s.queries.selectUserByEmail
	case store.FieldSessionHash:
		query = s.queries.selectUserBySessionHash
	case store.FieldResetTokenHash:
		query = s.queries.selectUserByResetHash
	}

	u := &store.User{}
	var sessionHash, resetHash sql.NullString
	var resetRequestedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, q.Value()).Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&sessionHash,
		&resetHash,
		&resetRequestedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if sessionHash.Valid {
		u.SessionHash = &sessionHash.String
	}
	if resetHash.Valid {
		u.ResetTokenHash = &resetHash.String
	}
	if resetRequestedAt.Valid {
		u.ResetRequestedAt = &resetRequestedAt.Time
	}

	return u, nil
}

// UpdateUser applies a partial update in a single UPDATE statement.
func (s *Store) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	if upd.IsZero() {
		return store.ErrEmptyUpdate
	}

	var sets []string
	var args []any
	n := 0
	next := func() string {
		n++
		return s.queries.placeholder(n)
	}

	if upd.HashedPassword != nil {
		sets = append(sets, "hashed_password = "+next())
		args = append(args, *upd.HashedPassword)
	}
	if upd.SessionHash != nil {
		sets = append(sets, "session_hash = "+next())
		args = append(args, *upd.SessionHash)
	}
	if upd.ResetTokenHash != nil {
		sets = append(sets, "reset_token_hash = "+next())
		args = append(args, *upd.ResetTokenHash)
		if upd.ResetTokenHash.Valid {
			sets = append(sets, "reset_requested_at = CURRENT_TIMESTAMP")
		} else {
			sets = append(sets, "reset_requested_at = NULL")
		}
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := "UPDATE " + s.queries.usersTable +
		" SET " + strings.Join(sets, ", ") +
		" WHERE id = " + next()
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PurgeStaleResetTokens clears reset tokens requested before the cutoff.
func (s *Store) PurgeStaleResetTokens(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.queries.purgeStaleResetTokens, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
