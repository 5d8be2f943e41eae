package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/principal"
	"github.com/smallbiznis/oemcatalog/pkg/db/pagination"
	"github.com/smallbiznis/oemcatalog/pkg/money"
	"gorm.io/gorm"
)

type Service interface {
	// FindByID returns nil when the catalog does not exist.
	FindByID(ctx context.Context, catalogID snowflake.ID) (*Catalog, error)
	ValidateCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*Catalog, error)
	ValidateCatalogProductParameters(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, productID snowflake.ID) (*Product, error)

	CreateCatalogProduct(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, req ProductRequest) (*Product, error)
	CreateOrUpdateCatalogProduct(ctx context.Context, req ProductRequest) (*Product, error)
	UpdateCatalogProduct(ctx context.Context, req ProductRequest, productID, catalogID snowflake.ID, actor principal.Principal) (*Product, error)
	UpsertCatalogProduct(ctx context.Context, tx *gorm.DB, product *Product) (*Product, error)

	GetProductsByCatalogID(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, page pagination.Pagination) ([]Product, error)
	GetProductFromCatalog(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) (*Product, error)
	GetMasterCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*mastercatalogdomain.CatalogView, error)
	DeleteCatalogProduct(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) error
}

// ProductRequest is the body of a catalog product create or update. ID and
// CatalogID come from the route, never from the body.
type ProductRequest struct {
	ID                      snowflake.ID  `json:"-"`
	CatalogID               snowflake.ID  `json:"-"`
	MasterProductPartNumber *string       `json:"masterProductPartNumber"`
	Name                    *string       `json:"name"`
	Description             *string       `json:"description"`
	Price                   *money.Amount `json:"price"`
	Logo                    *string       `json:"logo"`
	Picture                 *string       `json:"picture"`
	Status                  *bool         `json:"status"`
}

// MasterPartNumber returns the referenced part number, or "" for none.
func (r ProductRequest) MasterPartNumber() string {
	if r.MasterProductPartNumber == nil {
		return ""
	}
	return strings.TrimSpace(*r.MasterProductPartNumber)
}

var (
	ErrCatalogNotFound       = errors.New("catalog not found")
	ErrNotCatalogOwner       = errors.New("catalog is not owned by the caller")
	ErrProductNotFound       = errors.New("product not found")
	ErrMasterProductNotFound = errors.New("master product not exist")
	ErrPriceBelowMaster      = errors.New("master product price should be greater or equals of product")
)
