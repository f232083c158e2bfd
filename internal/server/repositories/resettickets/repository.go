package resettickets

import "context"

// Repository records redeemed password-reset tickets so each ticket id
// can be used once.
type Repository interface {
	// Redeem returns common.ErrTokenRedeemed if jti was already redeemed.
	Redeem(ctx context.Context, jti string, username string) error
}
