package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.OEM, error) {
	var oem domain.OEM
	err := db.WithContext(ctx).Raw(
		`SELECT id, oem_number, name, url, status, created_at, updated_at
		 FROM oems WHERE id = ?`,
		id,
	).Scan(&oem).Error
	if err != nil {
		return nil, err
	}
	if oem.ID == 0 {
		return nil, nil
	}
	return &oem, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, oemNumber string) (*domain.OEM, error) {
	var oem domain.OEM
	err := db.WithContext(ctx).Raw(
		`SELECT id, oem_number, name, url, status, created_at, updated_at
		 FROM oems WHERE oem_number = ?`,
		oemNumber,
	).Scan(&oem).Error
	if err != nil {
		return nil, err
	}
	if oem.ID == 0 {
		return nil, nil
	}
	return &oem, nil
}
