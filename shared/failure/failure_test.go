package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"homeserve/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestRejections(t *testing.T) {
	tests := []struct {
		err  error
		code int
		kind failure.Kind
	}{
		{err: failure.InvalidInput("bad"), code: http.StatusBadRequest, kind: failure.KindInvalidInput},
		{err: failure.BadRequestFromString("bad"), code: http.StatusBadRequest, kind: failure.KindInvalidInput},
		{err: failure.BadRequest(errors.New("unexpected EOF")), code: http.StatusBadRequest, kind: failure.KindInvalidInput},
		{err: failure.InvalidProvider("bad"), code: http.StatusBadRequest, kind: failure.KindInvalidProvider},
		{err: failure.NoProviders("none"), code: http.StatusConflict, kind: failure.KindNoProviders},
		{err: failure.AllBusy("busy"), code: http.StatusConflict, kind: failure.KindAllBusy},
		{err: failure.SlotTaken("taken"), code: http.StatusConflict, kind: failure.KindSlotTaken},
		{err: failure.OutsideWorkingHours("closed"), code: http.StatusUnprocessableEntity, kind: failure.KindOutsideWorkingHours},
		{err: failure.Unauthorized("no token"), code: http.StatusUnauthorized},
		{err: failure.Forbidden("not yours"), code: http.StatusForbidden},
		{err: failure.ForbiddenError, code: http.StatusForbidden},
		{err: failure.NotFound("booking not found"), code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.kind, failure.GetKind(tt.err))

			wrapped := fmt.Errorf("create booking: %w", tt.err)
			assert.Equal(t, tt.code, failure.GetCode(wrapped))
			assert.Equal(t, tt.kind, failure.GetKind(wrapped))
		})
	}
}

func TestBadRequest_Nil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestInternalErrors(t *testing.T) {
	for _, err := range []error{
		errors.New("pq: connection reset"),
		fmt.Errorf("insert: %w", failure.ErrConstraintViolation),
		nil,
	} {
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Empty(t, failure.GetKind(err))
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("assign: %w", failure.AllBusy("busy"))

	assert.True(t, failure.IsKind(err, failure.KindAllBusy))
	assert.False(t, failure.IsKind(err, failure.KindSlotTaken))
	assert.False(t, failure.IsKind(nil, ""))
}
