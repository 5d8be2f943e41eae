package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("oem.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.OEM, error) {
	oem, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if oem == nil {
		return nil, domain.ErrNotFound
	}
	return oem, nil
}

func (s *Service) GetByNumber(ctx context.Context, oemNumber string) (*domain.OEM, error) {
	oemNumber = strings.TrimSpace(oemNumber)
	if oemNumber == "" {
		return nil, domain.ErrNotFound
	}
	oem, err := s.repo.FindByNumber(ctx, s.db, oemNumber)
	if err != nil {
		return nil, err
	}
	if oem == nil {
		return nil, domain.ErrNotFound
	}
	return oem, nil
}
