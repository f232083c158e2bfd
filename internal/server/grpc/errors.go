package grpc

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/storefront/internal/common"
	pb "github.com/dmitrijs2005/storefront/internal/proto"
	"github.com/dmitrijs2005/storefront/internal/server/lockout"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrInvalidToken):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrorLocked):
		return codes.ResourceExhausted
	case errors.Is(err, common.ErrorUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// toStatus converts a flow error to a status whose message is the text the
// user should see.
func toStatus(err error) error {
	return status.Error(codeFor(err), services.Message(err))
}

func retryAfter(err error) metadata.MD {
	var locked *lockout.LockedError
	if errors.As(err, &locked) {
		return metadata.Pairs(pb.RetryAfterKey, strconv.Itoa(locked.Seconds()))
	}
	return nil
}
