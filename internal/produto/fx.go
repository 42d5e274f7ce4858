package produto

import (
	"github.com/junior875/nfcePt2/internal/produto/repository"
	"github.com/junior875/nfcePt2/internal/produto/service"
	"go.uber.org/fx"
)

var Module = fx.Module("produto.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
