package sql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate-key
// violations.
//
// MySQL reports zero affected rows for updates that leave every column
// unchanged; add clientFoundRows=true to the DSN so no-op updates are
// not mistaken for missing rows.
const mysqlDuplicateEntry = 1062

func isMySQLDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func getMySQLQueries() *dialectQueries {
	return &dialectQueries{
		placeholder: mysqlPlaceholder,
		isDuplicate: isMySQLDuplicate,

		usersTable: "sessionauth_users",

		schema: `
			CREATE TABLE IF NOT EXISTS sessionauth_users (
				id VARCHAR(64) PRIMARY KEY,
				email VARCHAR(255) NOT NULL,
				hashed_password TEXT NOT NULL,
				session_hash VARCHAR(64),
				reset_token_hash VARCHAR(64),
				reset_requested_at TIMESTAMP NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE KEY idx_sessionauth_users_email (email),
				UNIQUE KEY idx_sessionauth_users_session_hash (session_hash),
				UNIQUE KEY idx_sessionauth_users_reset_token_hash (reset_token_hash),
				KEY idx_sessionauth_users_reset_requested_at (reset_requested_at)
			)
		`,

		insertUser: `
			INSERT INTO sessionauth_users (id, email, hashed_password, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`,

		selectUserByID: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE id = ?
		`,

		selectUserByEmail: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE email = ?
		`,

		selectUserBySessionHash: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE session_hash = ?
		`,

		selectUserByResetHash: `
			SELECT ` + selectUserColumns + `
			FROM sessionauth_users WHERE reset_token_hash = ?
		`,

		purgeStaleResetTokens: `
			UPDATE sessionauth_users
			SET reset_token_hash = NULL, reset_requested_at = NULL, updated_at = CURRENT_TIMESTAMP
			WHERE reset_requested_at < ?
		`,
	}
}
