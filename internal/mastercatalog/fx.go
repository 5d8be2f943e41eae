package mastercatalog

import (
	"github.com/smallbiznis/oemcatalog/internal/mastercatalog/repository"
	"github.com/smallbiznis/oemcatalog/internal/mastercatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mastercatalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
