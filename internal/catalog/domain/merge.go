package domain

import (
	"strings"

	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
)

// MergeWithMaster builds a catalog product from a master product template.
// Fields present on req take precedence over the template. The master's id,
// master catalog id and timestamps are never carried over; its part number
// only survives as the link in MasterProductPartNumber.
func MergeWithMaster(master mastercatalogdomain.MasterProduct, req ProductRequest) Product {
	partNumber := master.PartNumber
	product := Product{
		ID:                      req.ID,
		CatalogID:               req.CatalogID,
		Name:                    master.Name,
		Description:             master.Description,
		Price:                   master.Price,
		Logo:                    master.Logo,
		Picture:                 master.Picture,
		Status:                  master.Status,
		MasterProductPartNumber: &partNumber,
	}
	overlay(&product, req)
	return product
}

// StandaloneProduct builds a catalog product with no master link.
func StandaloneProduct(req ProductRequest) Product {
	product := Product{
		ID:        req.ID,
		CatalogID: req.CatalogID,
		Status:    true,
	}
	overlay(&product, req)
	product.MasterProductPartNumber = nil
	return product
}

func overlay(product *Product, req ProductRequest) {
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price.Valid() {
		product.Price = req.Price.Decimal()
	}
	if req.Logo != nil {
		product.Logo = req.Logo
	}
	if req.Picture != nil {
		product.Picture = req.Picture
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
}
