package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/media"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AllCategories is the home page filter value that selects every product.
const AllCategories = "All"

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      media.Signer
	logger      logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, signer media.Signer, logger logging.Logger) *CatalogService {
	if signer == nil {
		signer = media.Passthrough{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &CatalogService{
		db:          db,
		repomanager: m,
		signer:      signer,
		logger:      logger.With("module", "catalog"),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repomanager.Catalog(s.db).ListCategories(ctx)
	if err != nil {
		s.logger.Error(ctx, "error listing categories", "error", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// ListProducts returns the products of category, or all of them for ""
// and AllCategories.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, AllCategories) {
		category = ""
	}

	products, err := s.repomanager.Catalog(s.db).ListProducts(ctx, category)
	if err != nil {
		s.logger.Error(ctx, "error listing products", "category", category, "error", err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	for i := range products {
		if err := s.signImages(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	if products == nil {
		products = []models.Product{}
	}

	return products, nil
}

// GetProduct returns a product with its seller. Malformed ids are reported
// as common.ErrorNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.ProductDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Catalog(s.db)

	p, err := repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error loading product", "id", id, "error", err)
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.signImages(ctx, p); err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{Product: *p}

	seller, err := repo.GetSeller(ctx, p.SellerID)
	switch {
	case err == nil:
		if seller.Avatar, err = s.signer.SignURL(ctx, seller.Avatar); err != nil {
			s.logger.Error(ctx, "error signing seller avatar", "seller_id", p.SellerID, "error", err)
			return nil, fmt.Errorf("sign avatar: %w", err)
		}
		detail.Seller = seller
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Warn(ctx, "product without seller", "id", id, "seller_id", p.SellerID)
	default:
		s.logger.Error(ctx, "error loading seller", "seller_id", p.SellerID, "error", err)
		return nil, fmt.Errorf("get seller: %w", err)
	}

	return detail, nil
}

func (s *CatalogService) signImages(ctx context.Context, p *models.Product) error {
	images, err := media.SignAll(ctx, s.signer, p.Images)
	if err != nil {
		s.logger.Error(ctx, "error signing product images", "id", p.ID, "error", err)
		return fmt.Errorf("sign images: %w", err)
	}
	p.Images = images
	return nil
}
