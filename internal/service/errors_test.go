package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorWith_KeepsIdentity(t *testing.T) {
	err := ErrStockInsuficiente.With("solicitado %d", 4)

	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.NotErrorIs(t, err, ErrCantidadInvalida)
	assert.Contains(t, err.Error(), "solicitado 4")
	assert.Equal(t, KindInsufficientStock, KindOf(fmt.Errorf("wrapped: %w", err)))
}

func TestKindOf_Internal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestTranslate(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "23505"} {
		err := translate(fmt.Errorf("commit: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, ErrConflicto, code)
		assert.Equal(t, KindConflict, KindOf(err))
	}

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, translate(other))
	assert.NoError(t, translate(nil))
}
