package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/internal/assert"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	"github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/observability/metrics"
	"github.com/smallbiznis/oemcatalog/internal/validation"
	"github.com/smallbiznis/oemcatalog/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("mastercatalog.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.MasterProduct, error) {
	req.Normalize()
	errs := validation.Struct(req)
	errs.Price("price", req.Price, true)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.ensurePartNumberAvailable(ctx, req.PartNumber); err != nil {
		return nil, err
	}

	catalog, err := s.repo.FindCatalog(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := assert.True(catalog != nil, assert.Err(domain.ErrMasterCatalogNotFound)); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := domain.MasterProduct{
		ID:              s.genID.Generate(),
		PartNumber:      req.PartNumber,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price.Decimal(),
		Logo:            req.Logo,
		Picture:         req.Picture,
		Status:          true,
		MasterCatalogID: catalog.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.repo.CreateProduct(ctx, s.db, &product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPartNumberExists
		}
		return nil, err
	}

	s.log.Info("master product created",
		zap.String("master_product_id", product.ID.String()),
		zap.String("part_number", product.PartNumber),
	)
	return &product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id snowflake.ID, req domain.UpdateProductRequest) (*domain.MasterProduct, error) {
	req.Normalize()
	errs := validation.Struct(req)
	errs.Price("price", req.Price, false)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrProductNotFound
	}

	renamed := req.PartNumber != nil && *req.PartNumber != stored.PartNumber
	if renamed {
		if err := s.ensurePartNumberAvailable(ctx, *req.PartNumber); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	updated := applyPatch(*stored, req, now)
	priceRaised := updated.Price.GreaterThan(stored.Price)

	var raised int64
	err = db.WithinTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if renamed {
			dependents, err := s.repo.CountDependents(ctx, tx, stored.PartNumber)
			if err != nil {
				return err
			}
			if err := assert.True(dependents == 0, assert.Err(domain.ErrPartNumberReferenced)); err != nil {
				return err
			}
		}

		if priceRaised {
			n, err := s.repo.RaiseDependentPrices(ctx, tx, stored.PartNumber, updated.Price, now)
			if err != nil {
				return fmt.Errorf("raise dependent prices: %w", err)
			}
			raised = n
		}

		return s.repo.UpdateProduct(ctx, tx, &updated)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPartNumberExists
		}
		return nil, err
	}

	s.metrics.RecordPriceCascade(raised)
	if priceRaised {
		s.log.Info("master product price raised",
			zap.String("master_product_id", updated.ID.String()),
			zap.String("part_number", stored.PartNumber),
			zap.String("price", updated.Price.String()),
			zap.Int64("catalog_products_raised", raised),
		)
	}

	return &updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id snowflake.ID) (*domain.MasterProduct, error) {
	stored, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrProductNotFound
	}

	now := s.clock.Now()
	var detached int64
	err = db.WithinTransaction(ctx, s.db, func(tx *gorm.DB) error {
		n, err := s.repo.DetachDependents(ctx, tx, stored.PartNumber, now)
		if err != nil {
			return fmt.Errorf("detach dependents: %w", err)
		}
		detached = n
		return s.repo.DeleteProduct(ctx, tx, stored.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDelinked(detached)
	s.log.Info("master product deleted",
		zap.String("master_product_id", stored.ID.String()),
		zap.String("part_number", stored.PartNumber),
		zap.Int64("catalog_products_detached", detached),
	)
	return stored, nil
}

func (s *Service) Find(ctx context.Context) ([]domain.MasterProduct, error) {
	catalog, err := s.repo.FindCatalog(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return []domain.MasterProduct{}, nil
	}
	return s.repo.ListProducts(ctx, s.db, catalog.ID)
}

func (s *Service) FindProductByPartNumber(ctx context.Context, partNumber string) (*domain.MasterProduct, error) {
	product, err := s.repo.FindProductByPartNumber(ctx, s.db, partNumber)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *Service) GetCatalog(ctx context.Context, id snowflake.ID) (*domain.CatalogView, error) {
	catalog, err := s.repo.FindCatalogByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, domain.ErrMasterCatalogNotFound
	}

	products, err := s.repo.ListProducts(ctx, s.db, catalog.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CatalogView{MasterCatalog: *catalog, Products: products}, nil
}

func (s *Service) ensurePartNumberAvailable(ctx context.Context, partNumber string) error {
	existing, err := s.repo.FindProductByPartNumber(ctx, s.db, partNumber)
	if err != nil {
		return err
	}
	return assert.True(existing == nil, assert.Err(domain.ErrPartNumberExists))
}

// applyPatch overlays the present patch fields on stored. Identity, catalog
// membership and creation time are never taken from the patch.
func applyPatch(stored domain.MasterProduct, req domain.UpdateProductRequest, now time.Time) domain.MasterProduct {
	updated := stored
	if req.PartNumber != nil {
		updated.PartNumber = *req.PartNumber
	}
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Price != nil {
		updated.Price = req.Price.Decimal()
	}
	if req.Logo != nil {
		updated.Logo = req.Logo
	}
	if req.Picture != nil {
		updated.Picture = req.Picture
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	updated.UpdatedAt = now
	return updated
}
