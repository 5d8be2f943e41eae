package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCatalog(ctx context.Context, db *gorm.DB) (*domain.MasterCatalog, error) {
	var catalog domain.MasterCatalog
	err := db.WithContext(ctx).Order("id ASC").First(&catalog).Error
	return found(&catalog, err)
}

func (r *repo) FindCatalogByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MasterCatalog, error) {
	var catalog domain.MasterCatalog
	err := db.WithContext(ctx).Where("id = ?", id).First(&catalog).Error
	return found(&catalog, err)
}

func (r *repo) CreateProduct(ctx context.Context, db *gorm.DB, product *domain.MasterProduct) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MasterProduct, error) {
	var product domain.MasterProduct
	err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	return found(&product, err)
}

func (r *repo) FindProductByPartNumber(ctx context.Context, db *gorm.DB, partNumber string) (*domain.MasterProduct, error) {
	var product domain.MasterProduct
	err := db.WithContext(ctx).Where("part_number = ?", partNumber).First(&product).Error
	return found(&product, err)
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, catalogID snowflake.ID) ([]domain.MasterProduct, error) {
	items := []domain.MasterProduct{}
	err := db.WithContext(ctx).
		Where("master_catalog_id = ?", catalogID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *domain.MasterProduct) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE master_products
		 SET part_number = ?, name = ?, description = ?, price = ?, logo = ?, picture = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		product.PartNumber,
		product.Name,
		product.Description,
		product.Price,
		product.Logo,
		product.Picture,
		product.Status,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) DeleteProduct(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.MasterProduct{}).Error
}

func (r *repo) CountDependents(ctx context.Context, db *gorm.DB, partNumber string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM products WHERE master_product_part_number = ?`,
		partNumber,
	).Scan(&count).Error
	return count, err
}

func (r *repo) RaiseDependentPrices(ctx context.Context, db *gorm.DB, partNumber string, price decimal.Decimal, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE products SET price = ?, updated_at = ?
		 WHERE master_product_part_number = ? AND price < ?`,
		price,
		at,
		partNumber,
		price,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) DetachDependents(ctx context.Context, db *gorm.DB, partNumber string, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE products SET master_product_part_number = NULL, updated_at = ?
		 WHERE master_product_part_number = ?`,
		at,
		partNumber,
	)
	return result.RowsAffected, result.Error
}

func found[T any](item *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}
