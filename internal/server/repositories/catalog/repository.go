package catalog

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository reads the storefront catalog. It never writes.
type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	// ListProducts returns every product when category is empty.
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetSeller(ctx context.Context, id string) (*models.Seller, error)
}
