package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type oemTokenRequest struct {
	OEMNumber string `json:"oem_number"`
}

// IssueAdminToken returns a long-lived administrator token.
func (s *Server) IssueAdminToken(c *gin.Context) {
	token, err := s.authSvc.IssueAdminToken(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (s *Server) IssueOEMToken(c *gin.Context) {
	var req oemTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	token, err := s.authSvc.IssueOEMToken(c.Request.Context(), req.OEMNumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
