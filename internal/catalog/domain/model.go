package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Catalog is an OEM-owned collection of products.
type Catalog struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string       `json:"name" gorm:"type:text;not null"`
	Description     string       `json:"description" gorm:"type:text;not null"`
	Status          bool         `json:"status" gorm:"not null"`
	OEMID           snowflake.ID `json:"oemId" gorm:"column:oem_id;not null;index"`
	MasterCatalogID snowflake.ID `json:"masterCatalogId" gorm:"not null;index"`
	CreatedAt       time.Time    `json:"createdAt" gorm:"not null"`
	UpdatedAt       time.Time    `json:"updatedAt" gorm:"not null"`
}

func (Catalog) TableName() string { return "catalogs" }

// Product is a catalog product. MasterProductPartNumber links it to a master
// product by business key; nil means the product stands alone.
type Product struct {
	ID                      snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name                    string          `json:"name" gorm:"type:text;not null"`
	Description             string          `json:"description" gorm:"type:text;not null"`
	Price                   decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Logo                    *string         `json:"logo" gorm:"type:text"`
	Picture                 *string         `json:"picture" gorm:"type:text"`
	Status                  bool            `json:"status" gorm:"not null"`
	CatalogID               snowflake.ID    `json:"catalogId" gorm:"not null;index"`
	MasterProductPartNumber *string         `json:"masterProductPartNumber" gorm:"type:varchar(64);index"`
	CreatedAt               time.Time       `json:"createdAt" gorm:"not null"`
	UpdatedAt               time.Time       `json:"updatedAt" gorm:"not null"`
}

func (Product) TableName() string { return "products" }
