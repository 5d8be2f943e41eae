package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// OEM is a manufacturer tenant owning catalogs.
type OEM struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OEMNumber string       `json:"oemNumber" gorm:"column:oem_number;type:varchar(64);not null;uniqueIndex:ux_oems_oem_number"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	URL       *string      `json:"url" gorm:"column:url;type:text"`
	Status    bool         `json:"status" gorm:"not null"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"not null"`
}

func (OEM) TableName() string { return "oems" }

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*OEM, error)
	FindByNumber(ctx context.Context, db *gorm.DB, oemNumber string) (*OEM, error)
}

type Service interface {
	GetByID(ctx context.Context, id snowflake.ID) (*OEM, error)
	GetByNumber(ctx context.Context, oemNumber string) (*OEM, error)
}

var (
	ErrNotFound = errors.New("oem not found")
	ErrInactive = errors.New("oem is inactive")
)
