// Package seed loads the reference data a fresh installation needs: the
// master catalog with its starter products, two OEMs and their catalogs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	oemdomain "github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MasterCatalogID snowflake.ID = 1

var masterProducts = []mastercatalogdomain.MasterProduct{
	{ID: 1, PartNumber: "A001", Name: "Classic Black Dress", Description: "Elegant black dress for all occasions", Price: decimal.RequireFromString("99.99")},
	{ID: 2, PartNumber: "A002", Name: "Denim Jacket", Description: "Stylish denim jacket for a casual look", Price: decimal.RequireFromString("79.99")},
	{ID: 3, PartNumber: "A003", Name: "Leather Boots", Description: "High-quality leather boots for durability", Price: decimal.RequireFromString("149.99")},
}

var oems = []oemdomain.OEM{
	{ID: 1, OEMNumber: "ACM-123", Name: "Acme Corporation", URL: ptr("https://www.acme.com")},
	{ID: 2, OEMNumber: "GLX-456", Name: "Globex Industries", URL: ptr("https://www.globex.com")},
}

var catalogs = []catalogdomain.Catalog{
	{ID: 1, Name: "Acme Spring Collection", Description: "Spring catalog of Acme Corporation", OEMID: 1},
	{ID: 2, Name: "Acme Fall Collection", Description: "Fall catalog of Acme Corporation", OEMID: 1},
	{ID: 3, Name: "Globex Essentials", Description: "Everyday catalog of Globex Industries", OEMID: 2},
	{ID: 4, Name: "Globex Premium", Description: "Premium catalog of Globex Industries", OEMID: 2},
}

// Run inserts the reference rows that are missing. Existing rows are matched
// by business key and left untouched, so Run is safe to repeat.
func Run(ctx context.Context, db *gorm.DB, clk clock.Clock, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	now := clk.Now()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMasterCatalog(tx, now); err != nil {
			return err
		}
		for _, product := range masterProducts {
			if err := ensureMasterProduct(tx, product, now); err != nil {
				return err
			}
		}
		for _, oem := range oems {
			if err := ensureOEM(tx, oem, now); err != nil {
				return err
			}
		}
		for _, catalog := range catalogs {
			if err := ensureCatalog(tx, catalog, now); err != nil {
				return err
			}
		}
		log.Info("seed data ensured",
			zap.Int("master_products", len(masterProducts)),
			zap.Int("oems", len(oems)),
			zap.Int("catalogs", len(catalogs)),
		)
		return nil
	})
}

func ensureMasterCatalog(tx *gorm.DB, now time.Time) error {
	var existing mastercatalogdomain.MasterCatalog
	err := tx.Where("id = ?", MasterCatalogID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&mastercatalogdomain.MasterCatalog{
		ID:          MasterCatalogID,
		Name:        "Master Catalog",
		Description: "Canonical products every OEM catalog derives from",
		Status:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

func ensureMasterProduct(tx *gorm.DB, product mastercatalogdomain.MasterProduct, now time.Time) error {
	var existing mastercatalogdomain.MasterProduct
	err := tx.Where("part_number = ?", product.PartNumber).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	product.Status = true
	product.MasterCatalogID = MasterCatalogID
	product.CreatedAt = now
	product.UpdatedAt = now
	return tx.Create(&product).Error
}

func ensureOEM(tx *gorm.DB, oem oemdomain.OEM, now time.Time) error {
	var existing oemdomain.OEM
	err := tx.Where("oem_number = ?", oem.OEMNumber).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	oem.Status = true
	oem.CreatedAt = now
	oem.UpdatedAt = now
	return tx.Create(&oem).Error
}

func ensureCatalog(tx *gorm.DB, catalog catalogdomain.Catalog, now time.Time) error {
	var existing catalogdomain.Catalog
	err := tx.Where("id = ?", catalog.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	catalog.Status = true
	catalog.MasterCatalogID = MasterCatalogID
	catalog.CreatedAt = now
	catalog.UpdatedAt = now
	return tx.Create(&catalog).Error
}

func ptr(value string) *string {
	return &value
}
