package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("add comment: %w", NewValidationError("rating", "must be between 1 and 5"))
	require.True(t, errors.Is(err, ErrValidation))
	require.False(t, errors.Is(err, ErrNotFound))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "rating", ve.Field)
	require.Equal(t, "rating: must be between 1 and 5", ve.Error())
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleCandidate.Valid())
	require.True(t, RoleInterviewer.Valid())
	require.False(t, Role("admin").Valid())
	require.False(t, Role("").Valid())
}
