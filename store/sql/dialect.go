// Package sql provides SQL database storage for sessionauth.
package sql

import (
	"strconv"
	"strings"
)

// Dialect represents a SQL database dialect.
type Dialect string

const (
	// PostgreSQL dialect.
	PostgreSQL Dialect = "postgres"
	// MySQL dialect.
	MySQL Dialect = "mysql"
)

// dialectQueries contains SQL queries for each dialect.
type dialectQueries struct {
	// Schema creation (combined into single string for migration)
	schema string

	// usersTable is the fully prefixed table name, used when building
	// partial updates at runtime.
	usersTable string

	// Users
	insertUser              string
	selectUserByID          string
	selectUserByEmail       string
	selectUserBySessionHash string
	selectUserByResetHash   string
	purgeStaleResetTokens   string

	// placeholder renders the n-th bind parameter for the dialect.
	placeholder func(int) string

	// isDuplicate reports whether an error is a unique-constraint
	// violation.
	isDuplicate func(error) bool
}

// Default table prefix used in the query text.
const defaultTablePrefix = "sessionauth_"

// getDialectQueries returns the queries for a specific dialect with the given table prefix.
func getDialectQueries(d Dialect, tablePrefix string) *dialectQueries {
	var dq *dialectQueries
	switch d {
	case MySQL:
		dq = getMySQLQueries()
	default:
		dq = getPostgreSQLQueries()
	}

	// Apply custom table prefix if different from default
	if tablePrefix != defaultTablePrefix {
		dq = applyTablePrefix(dq, tablePrefix)
	}

	return dq
}

// applyTablePrefix replaces the default table prefix with a custom one in all queries.
func applyTablePrefix(dq *dialectQueries, prefix string) *dialectQueries {
	replace := func(s string) string {
		return strings.ReplaceAll(s, defaultTablePrefix, prefix)
	}

	return &dialectQueries{
		placeholder: dq.placeholder,
		isDuplicate: dq.isDuplicate,

		schema:     replace(dq.schema),
		usersTable: replace(dq.usersTable),

		insertUser:              replace(dq.insertUser),
		selectUserByID:          replace(dq.selectUserByID),
		selectUserByEmail:       replace(dq.selectUserByEmail),
		selectUserBySessionHash: replace(dq.selectUserBySessionHash),
		selectUserByResetHash:   replace(dq.selectUserByResetHash),
		purgeStaleResetTokens:   replace(dq.purgeStaleResetTokens),
	}
}

// placeholder functions for different dialects
func postgresPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func mysqlPlaceholder(_ int) string {
	return "?"
}
