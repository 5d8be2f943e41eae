package authorization

import (
	"context"
	"errors"

	"github.com/smallbiznis/oemcatalog/internal/principal"
)

type Service interface {
	// Authorize succeeds when any role of actor is granted action on object.
	Authorize(ctx context.Context, actor principal.Principal, object string, action string) error
}

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid actor")
	ErrInvalidObject = errors.New("invalid object")
	ErrInvalidAction = errors.New("invalid action")
)
