package sql

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestGetDialectQueries_Postgres(t *testing.T) {
	dq := getDialectQueries(PostgreSQL, defaultTablePrefix)

	if !strings.Contains(dq.insertUser, "$1") {
		t.Error("postgres queries should use positional placeholders")
	}
	if dq.usersTable != "sessionauth_users" {
		t.Errorf("usersTable = %q, want %q", dq.usersTable, "sessionauth_users")
	}
	if got := dq.placeholder(3); got != "$3" {
		t.Errorf("placeholder(3) = %q, want %q", got, "$3")
	}
}

func TestGetDialectQueries_MySQL(t *testing.T) {
	dq := getDialectQueries(MySQL, defaultTablePrefix)

	if strings.Contains(dq.insertUser, "$1") {
		t.Error("mysql queries should not use positional placeholders")
	}
	if !strings.Contains(dq.insertUser, "?") {
		t.Error("mysql queries should use ? placeholders")
	}
	if got := dq.placeholder(3); got != "?" {
		t.Errorf("placeholder(3) = %q, want %q", got, "?")
	}
}

func TestGetDialectQueries_CustomPrefix(t *testing.T) {
	dq := getDialectQueries(PostgreSQL, "myapp_")

	if dq.usersTable != "myapp_users" {
		t.Errorf("usersTable = %q, want %q", dq.usersTable, "myapp_users")
	}
	if strings.Contains(dq.schema, defaultTablePrefix) {
		t.Error("schema should not contain the default prefix")
	}
	for _, q := range []string{
		dq.insertUser,
		dq.selectUserByID,
		dq.selectUserByEmail,
		dq.selectUserBySessionHash,
		dq.selectUserByResetHash,
		dq.purgeStaleResetTokens,
	} {
		if !strings.Contains(q, "myapp_users") {
			t.Errorf("query missing custom prefix: %s", q)
		}
	}
}

func TestGetDriverName(t *testing.T) {
	if got := getDriverName(PostgreSQL); got != "pgx" {
		t.Errorf("getDriverName(PostgreSQL) = %q, want %q", got, "pgx")
	}
	if got := getDriverName(MySQL); got != "mysql" {
		t.Errorf("getDriverName(MySQL) = %q, want %q", got, "mysql")
	}
}

func TestIsPostgresDuplicate(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !isPostgresDuplicate(dup) {
		t.Error("unique violation should be detected as duplicate")
	}

	other := &pgconn.PgError{Code: "23503"}
	if isPostgresDuplicate(other) {
		t.Error("foreign key violation should not be a duplicate")
	}

	if isPostgresDuplicate(errors.New("plain error")) {
		t.Error("plain error should not be a duplicate")
	}
}

func TestIsMySQLDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062}
	if !isMySQLDuplicate(dup) {
		t.Error("error 1062 should be detected as duplicate")
	}

	other := &mysql.MySQLError{Number: 1451}
	if isMySQLDuplicate(other) {
		t.Error("error 1451 should not be a duplicate")
	}

	if isMySQLDuplicate(errors.New("plain error")) {
		t.Error("plain error should not be a duplicate")
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	s, err := New(&Config{Dialect: PostgreSQL, DSN: "postgres://localhost/test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.queries.usersTable != "sessionauth_users" {
		t.Errorf("usersTable = %q, want default prefix", s.queries.usersTable)
	}
}
