package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/internal/assert"
	"github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	"github.com/smallbiznis/oemcatalog/internal/config"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/observability/metrics"
	"github.com/smallbiznis/oemcatalog/internal/principal"
	"github.com/smallbiznis/oemcatalog/internal/validation"
	"github.com/smallbiznis/oemcatalog/pkg/db"
	"github.com/smallbiznis/oemcatalog/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	Settings  *config.CatalogSettingsHolder
	Repo      domain.Repository
	MasterSvc mastercatalogdomain.Service
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	settings  *config.CatalogSettingsHolder
	repo      domain.Repository
	masterSvc mastercatalogdomain.Service
	metrics   *metrics.Metrics

	scopeProductsToCatalog bool
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("catalog.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		settings:  p.Settings,
		repo:      p.Repo,
		masterSvc: p.MasterSvc,
		metrics:   p.Metrics,

		scopeProductsToCatalog: p.Cfg.Catalog.ScopeProductsToCatalog,
	}
}

func (s *Service) FindByID(ctx context.Context, catalogID snowflake.ID) (*domain.Catalog, error) {
	return s.repo.FindCatalogByID(ctx, s.db, catalogID)
}

func (s *Service) ValidateCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*domain.Catalog, error) {
	catalog, err := s.FindByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if err := assert.True(catalog != nil, assert.Err(domain.ErrCatalogNotFound)); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return catalog, nil
	}
	if err := assert.True(catalog.OEMID == actor.ID, assert.Err(domain.ErrNotCatalogOwner)); err != nil {
		s.log.Warn("catalog ownership check failed",
			zap.String("catalog_id", catalogID.String()),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, err
	}
	return catalog, nil
}

func (s *Service) ValidateCatalogProductParameters(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, productID snowflake.ID) (*domain.Product, error) {
	if _, err := s.ValidateCatalog(ctx, catalogID, actor); err != nil {
		return nil, err
	}

	var (
		product *domain.Product
		err     error
	)
	if s.scopeProductsToCatalog {
		product, err = s.repo.FindCatalogProduct(ctx, s.db, catalogID, productID)
	} else {
		product, err = s.repo.FindProductByID(ctx, s.db, productID)
	}
	if err != nil {
		return nil, err
	}
	if err := assert.True(product != nil, assert.Err(domain.ErrProductNotFound)); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) CreateCatalogProduct(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, req domain.ProductRequest) (*domain.Product, error) {
	catalog, err := s.ValidateCatalog(ctx, catalogID, actor)
	if err != nil {
		return nil, err
	}
	req.ID = 0
	req.CatalogID = catalog.ID
	return s.CreateOrUpdateCatalogProduct(ctx, req)
}

func (s *Service) UpdateCatalogProduct(ctx context.Context, req domain.ProductRequest, productID, catalogID snowflake.ID, actor principal.Principal) (*domain.Product, error) {
	if _, err := s.ValidateCatalogProductParameters(ctx, catalogID, actor, productID); err != nil {
		return nil, err
	}
	req.CatalogID = catalogID
	req.ID = productID
	return s.CreateOrUpdateCatalogProduct(ctx, req)
}

// CreateOrUpdateCatalogProduct reconciles the request against its master
// product, when it names one, and persists the result.
func (s *Service) CreateOrUpdateCatalogProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	var (
		product domain.Product
		source  string
	)

	if partNumber := req.MasterPartNumber(); partNumber != "" {
		master, err := s.masterSvc.FindProductByPartNumber(ctx, partNumber)
		if err != nil {
			if errors.Is(err, mastercatalogdomain.ErrProductNotFound) {
				return nil, domain.ErrMasterProductNotFound
			}
			return nil, err
		}

		if req.Price != nil {
			errs := &validation.Errors{}
			errs.Price("price", req.Price, false)
			if err := errs.Err(); err != nil {
				return nil, err
			}
			floor := assert.Lazy(func() error {
				return fmt.Errorf("%w (master price %s)", domain.ErrPriceBelowMaster, master.Price)
			})
			if err := assert.False(req.Price.Decimal().LessThan(master.Price), floor); err != nil {
				return nil, err
			}
		}

		product = domain.MergeWithMaster(*master, req)
		source = metrics.SourceMaster
	} else {
		if err := validateStandalone(req); err != nil {
			return nil, err
		}
		product = domain.StandaloneProduct(req)
		source = metrics.SourceStandalone
	}

	var saved *domain.Product
	err := db.WithinTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		saved, err = s.UpsertCatalogProduct(ctx, tx, &product)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCatalogProductWrite(source)
	return saved, nil
}

// UpsertCatalogProduct updates the product when its id matches an existing
// row and creates it otherwise.
func (s *Service) UpsertCatalogProduct(ctx context.Context, tx *gorm.DB, product *domain.Product) (*domain.Product, error) {
	now := s.clock.Now()

	if product.ID != 0 {
		existing, err := s.repo.FindProductByID(ctx, tx, product.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			product.CreatedAt = existing.CreatedAt
			product.UpdatedAt = now
			if err := s.repo.UpdateProduct(ctx, tx, product); err != nil {
				return nil, err
			}
			return product, nil
		}
	} else {
		product.ID = s.genID.Generate()
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.repo.CreateProduct(ctx, tx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetProductsByCatalogID(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, page pagination.Pagination) ([]domain.Product, error) {
	if _, err := s.ValidateCatalog(ctx, catalogID, actor); err != nil {
		return nil, err
	}

	limits := s.settings.Get().Pagination
	page, err := page.Normalize(limits.DefaultLimit, limits.MaxLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.ListProducts(ctx, s.db, catalogID, page.Offset(), page.Limit)
}

func (s *Service) GetProductFromCatalog(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) (*domain.Product, error) {
	return s.ValidateCatalogProductParameters(ctx, catalogID, actor, productID)
}

func (s *Service) GetMasterCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*mastercatalogdomain.CatalogView, error) {
	catalog, err := s.ValidateCatalog(ctx, catalogID, actor)
	if err != nil {
		return nil, err
	}
	return s.masterSvc.GetCatalog(ctx, catalog.MasterCatalogID)
}

func (s *Service) DeleteCatalogProduct(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) error {
	product, err := s.ValidateCatalogProductParameters(ctx, catalogID, actor, productID)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(ctx, s.db, product.ID)
}

type standaloneFields struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func validateStandalone(req domain.ProductRequest) error {
	fields := standaloneFields{}
	if req.Name != nil {
		fields.Name = *req.Name
	}
	if req.Description != nil {
		fields.Description = *req.Description
	}
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Description = strings.TrimSpace(fields.Description)

	errs := validation.Struct(fields)
	errs.Price("price", req.Price, true)
	return errs.Err()
}
