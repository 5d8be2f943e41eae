package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/pkg/money"
)

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*MasterProduct, error)
	UpdateProduct(ctx context.Context, id snowflake.ID, req UpdateProductRequest) (*MasterProduct, error)
	DeleteProduct(ctx context.Context, id snowflake.ID) (*MasterProduct, error)
	Find(ctx context.Context) ([]MasterProduct, error)

	FindProductByPartNumber(ctx context.Context, partNumber string) (*MasterProduct, error)
	GetCatalog(ctx context.Context, id snowflake.ID) (*CatalogView, error)
}

type CreateProductRequest struct {
	PartNumber  string        `json:"partNumber" validate:"required,max=64"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Price       *money.Amount `json:"price"`
	Logo        *string       `json:"logo"`
	Picture     *string       `json:"picture"`
	Status      *bool         `json:"status"`
}

func (r *CreateProductRequest) Normalize() {
	r.PartNumber = strings.TrimSpace(r.PartNumber)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

// UpdateProductRequest is a patch: nil fields keep their stored value.
type UpdateProductRequest struct {
	PartNumber  *string       `json:"partNumber" validate:"omitnil,min=1,max=64"`
	Name        *string       `json:"name" validate:"omitnil,min=1"`
	Description *string       `json:"description" validate:"omitnil,min=1"`
	Price       *money.Amount `json:"price"`
	Logo        *string       `json:"logo"`
	Picture     *string       `json:"picture"`
	Status      *bool         `json:"status"`
}

func (r *UpdateProductRequest) Normalize() {
	for _, field := range []*string{r.PartNumber, r.Name, r.Description} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

var (
	ErrMasterCatalogNotFound = errors.New("master catalog not found")
	ErrProductNotFound       = errors.New("master product not found")
	ErrPartNumberExists      = errors.New("part number already exist")
	ErrPartNumberReferenced  = errors.New("part number is referenced by catalog products")
)
