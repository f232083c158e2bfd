package resettickets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Redeem(ctx context.Context, jti string, username string) error {
	query :=
		`INSERT INTO reset_ticket_redemptions (jti, username)
		 VALUES ($1, $2)
		 ON CONFLICT (jti) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, jti, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrTokenRedeemed
	}

	return nil
}
