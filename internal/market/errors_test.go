package market_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/market"
)

func TestRemoteError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := &market.RemoteError{Op: "purchase", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "purchase")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestTypedErrorsMatchThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("buying desk: %w", market.ErrAlreadySold)
	assert.ErrorIs(t, wrapped, market.ErrAlreadySold)

	var aerr *market.AuthorizationError
	err := fmt.Errorf("editing: %w", &market.AuthorizationError{ID: "id-1", Requester: "b@x.com"})
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "id-1", aerr.ID)

	var verr *market.ValidationError
	err = fmt.Errorf("creating: %w", &market.ValidationError{Field: "price", Reason: "negative"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)
}
