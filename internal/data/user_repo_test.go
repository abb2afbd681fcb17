package data

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "app_users_email_key"}
	assert.True(t, isUniqueViolation(unique))

	// Wrapped errors are still recognized.
	assert.True(t, isUniqueViolation(fmt.Errorf("create user: %w", unique)))

	foreignKey := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.False(t, isUniqueViolation(foreignKey))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
	assert.False(t, isUniqueViolation(nil))
}
