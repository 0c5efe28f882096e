package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/splitease/splitease/internal/ledger"
	"github.com/splitease/splitease/internal/middleware"
	"github.com/splitease/splitease/internal/storage"
)

var (
	errAuthRequired = errors.New("authentication required")

	// ErrNotAMember is returned when the actor or payer does not belong to
	// the target group.
	ErrNotAMember = errors.New("not a member of this group")

	// ErrForbidden is returned when the actor lacks permission for a
	// mutation, e.g. deleting someone else's expense.
	ErrForbidden = errors.New("permission denied")

	// ErrAmountNotPositive is returned for zero or negative expense amounts.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrUnsupportedSplitType is returned for split types other than EQUAL
	// and CUSTOM.
	ErrUnsupportedSplitType = errors.New("unsupported split type")
)

// authedUserID extracts the authenticated user ID from the context or fails
// with CodeUnauthenticated.
func authedUserID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// asConnectError maps domain errors to Connect codes. Unrecognized errors are
// internal: they indicate infrastructure failure, not caller mistakes.
func asConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrNotAMember), errors.Is(err, ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ErrAmountNotPositive), errors.Is(err, ErrUnsupportedSplitType):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrSharesRequired),
		errors.Is(err, ledger.ErrShareSumMismatch),
		errors.Is(err, ledger.ErrNoParticipants):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
