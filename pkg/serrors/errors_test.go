package serrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/pkg/serrors"
)

func TestConstructorsCarryStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    *serrors.ServiceError
		status int
	}{
		{serrors.NewNotFound("EVENT_NOT_FOUND", "event not found"), http.StatusNotFound},
		{serrors.NewValidation("INVALID_PROCESS_POINT", "bad stage"), http.StatusBadRequest},
		{serrors.NewConflict("EMAIL_TAKEN", "email taken"), http.StatusConflict},
		{serrors.NewInvalidState("REQUEST_ALREADY_PROCESSED", "done"), http.StatusConflict},
		{serrors.NewUnauthorized("INVALID_CREDENTIALS", "nope"), http.StatusUnauthorized},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.Status, c.err.Code)
	}
}

func TestInternalWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := serrors.NewInternal("failed to load events", cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "INTERNAL", err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestMapIntegrity(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	mapped := serrors.MapIntegrity(unique, "EMAIL_TAKEN", "email taken")

	var serr *serrors.ServiceError
	require.ErrorAs(t, mapped, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "EMAIL_TAKEN", serr.Code)

	plain := errors.New("timeout")
	assert.Equal(t, plain, serrors.MapIntegrity(plain, "X", "y"))
	assert.NoError(t, serrors.MapIntegrity(nil, "X", "y"))
}

func TestIsIntegrity(t *testing.T) {
	t.Parallel()

	assert.True(t, serrors.IsIntegrity(&pgconn.PgError{Code: "23505"}))
	assert.True(t, serrors.IsIntegrity(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, serrors.IsIntegrity(&pgconn.PgError{Code: "40001"}))
	assert.False(t, serrors.IsIntegrity(errors.New("plain")))
}
