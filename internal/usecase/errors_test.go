package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &NotFoundError{Kind: entity.KindDeal, ID: 4}, CodeNotFound},
		{"quota", &QuotaExceededError{Limit: 3}, CodeQuotaExceeded},
		{"validation", ValidationErrors{{"title", "is required"}}, CodeValidation},
		{"store", storeErr("list", errors.New("x")), CodeStore},
		{"wrapped", fmt.Errorf("handler: %w", &QuotaExceededError{Limit: 3}), CodeQuotaExceeded},
		{"unknown", errors.New("plain"), CodeStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestLookupErr(t *testing.T) {
	err := lookupErr(entity.KindTask, 9, fmt.Errorf("scan: %w", entity.ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, "task 9 not found", err.Error())

	cause := errors.New("conn refused")
	err = lookupErr(entity.KindTask, 9, cause)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrMessage(t *testing.T) {
	assert.NoError(t, validationErr(nil))

	err := validationErr([]ValidationError{{"full_name", "is required"}, {"email", "is invalid"}})
	assert.EqualError(t, err, "validation failed: full_name: is required, email: is invalid")
}
