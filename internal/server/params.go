package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/oemcatalog/internal/principal"
)

func parseIDParam(c *gin.Context, name string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param(name)))
	if err != nil || id <= 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

func actorFromContext(c *gin.Context) (principal.Principal, error) {
	actor, ok := principal.FromContext(c.Request.Context())
	if !ok {
		return principal.Principal{}, ErrUnauthorized
	}
	return actor, nil
}
