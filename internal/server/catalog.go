package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	"github.com/smallbiznis/oemcatalog/pkg/db/pagination"
)

func (s *Server) ListCatalogProducts(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	products, err := s.catalogSvc.GetProductsByCatalogID(c.Request.Context(), catalogID, actor, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (s *Server) GetCatalogProduct(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.catalogSvc.GetProductFromCatalog(c.Request.Context(), productID, catalogID, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) CreateCatalogProduct(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalogSvc.CreateCatalogProduct(c.Request.Context(), catalogID, actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (s *Server) UpdateCatalogProduct(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalogSvc.UpdateCatalogProduct(c.Request.Context(), req, productID, catalogID, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) DeleteCatalogProduct(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalogSvc.DeleteCatalogProduct(c.Request.Context(), productID, catalogID, actor); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCatalogMasterCatalog returns the master catalog the catalog derives from.
func (s *Server) GetCatalogMasterCatalog(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalogID, err := parseIDParam(c, "catalogId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.catalogSvc.GetMasterCatalog(c.Request.Context(), catalogID, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}
