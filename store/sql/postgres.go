package sql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint
// violations.
const pgUniqueViolation = "23505"

func isPostgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

const selectUserColumns = `id, email, hashed_password, session_hash, reset_token_hash, reset_requested_at, created_at, updated_at`

func getPostgreSQLQueries() *dialectQueries {
	return &dialectQueries{
		placeholder: postgresPlaceholder,
		isDuplicate: isPostgresDuplicate,

		usersTable: "sessionauth_users",

		schema: `
			CREATE TABLE IF NOT EXISTS sessionauth_users (
				id VARCHAR(64) PRIMARY KEY,
				email VARCHAR(255) NOT NULL,
				hashed_password TEXT NOT NULL,
				session_hash VARCHAR(64),
				reset_token_hash VARCHAR(64),
				reset_requested_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_sessionauth_users_email ON sessionauth_users(email);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_sessionauth_users_session_hash ON sessionauth_users(session_hash);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_sessionauth_users_reset_token_hash ON sessionauth_users(reset_token_hash);
			CREATE INDEX IF NOT EXISTS idx_sessionauth_users_reset_requested_at ON sessionauth_users(reset_requested_at)
		`,

		insertUser: `
			INSERT INTO sessionauth_users (id, email, hashed_password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`,

		selectUserByID: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE id = $1
		`,

		selectUserByEmail: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE email = $1
		`,

		selectUserBySessionHash: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE session_hash = $1
		`,

		selectUserByResetHash: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE reset_token_hash = $1
		`,

		purgeStaleResetTokens: `
			UPDATE sessionauth_users
			SET reset_token_hash = NULL, reset_requested_at = NULL, updated_at = CURRENT_TIMESTAMP
			WHERE reset_requested_at < $1
		`,
	}
}
