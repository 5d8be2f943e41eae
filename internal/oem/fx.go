package oem

import (
	"github.com/smallbiznis/oemcatalog/internal/oem/repository"
	"github.com/smallbiznis/oemcatalog/internal/oem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("oem.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
