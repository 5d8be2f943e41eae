package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MasterCatalog is the single canonical catalog that OEM catalogs derive from.
type MasterCatalog struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	Status      bool         `json:"status" gorm:"not null"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"not null"`
}

func (MasterCatalog) TableName() string { return "master_catalogs" }

// MasterProduct is a canonical product. PartNumber is its business key and is
// what catalog products reference.
type MasterProduct struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PartNumber      string          `json:"partNumber" gorm:"type:varchar(64);not null;uniqueIndex:ux_master_products_part_number"`
	Name            string          `json:"name" gorm:"type:text;not null"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Logo            *string         `json:"logo" gorm:"type:text"`
	Picture         *string         `json:"picture" gorm:"type:text"`
	Status          bool            `json:"status" gorm:"not null"`
	MasterCatalogID snowflake.ID    `json:"masterCatalogId" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"not null"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"not null"`
}

func (MasterProduct) TableName() string { return "master_products" }

// CatalogView is a master catalog together with its products.
type CatalogView struct {
	MasterCatalog
	Products []MasterProduct `json:"products"`
}
