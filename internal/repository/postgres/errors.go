package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmanagement/internal/domain"
)

// Postgres SQLSTATE codes the repositories translate into domain errors.
const (
	codeForeignKeyViolation       pq.ErrorCode = "23503"
	codeUniqueViolation           pq.ErrorCode = "23505"
	codeCheckViolation            pq.ErrorCode = "23514"
	codeInvalidTextRepresentation pq.ErrorCode = "22P02"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// translate maps driver errors to domain sentinels, leaving anything else untouched.
// A malformed UUID can never match a row, so it is reported as not found.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	switch pqCode(err) {
	case codeForeignKeyViolation, codeInvalidTextRepresentation:
		return domain.ErrNotFound
	case codeCheckViolation:
		return domain.ErrInvalidInput
	}
	return err
}
