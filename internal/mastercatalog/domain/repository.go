package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	FindCatalog(ctx context.Context, db *gorm.DB) (*MasterCatalog, error)
	FindCatalogByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MasterCatalog, error)

	CreateProduct(ctx context.Context, db *gorm.DB, product *MasterProduct) error
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MasterProduct, error)
	FindProductByPartNumber(ctx context.Context, db *gorm.DB, partNumber string) (*MasterProduct, error)
	ListProducts(ctx context.Context, db *gorm.DB, catalogID snowflake.ID) ([]MasterProduct, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, product *MasterProduct) error
	DeleteProduct(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// CountDependents counts catalog products referencing partNumber.
	CountDependents(ctx context.Context, db *gorm.DB, partNumber string) (int64, error)
	// RaiseDependentPrices lifts every catalog product referencing partNumber
	// and priced below price up to price.
	RaiseDependentPrices(ctx context.Context, db *gorm.DB, partNumber string, price decimal.Decimal, at time.Time) (int64, error)
	// DetachDependents clears the master reference of catalog products.
	DetachDependents(ctx context.Context, db *gorm.DB, partNumber string, at time.Time) (int64, error)
}
