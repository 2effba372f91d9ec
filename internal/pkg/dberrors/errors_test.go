package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert member: %w", &pgconn.PgError{Code: "23505", ConstraintName: "members_membership_number_key"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "members_membership_number_key"))
	assert.False(t, IsDuplicateConstraintError(err, "members_application_id_key"))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
