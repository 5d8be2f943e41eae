package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindCatalogByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Catalog, error)

	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindCatalogProduct(ctx context.Context, db *gorm.DB, catalogID, id snowflake.ID) (*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, catalogID snowflake.ID, offset, limit int) ([]Product, error)
	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	DeleteProduct(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
