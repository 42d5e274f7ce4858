package nfce

import (
	"github.com/junior875/nfcePt2/internal/nfce/builder"
	"github.com/junior875/nfcePt2/internal/nfce/domain"
	"github.com/junior875/nfcePt2/internal/nfce/repository"
	"github.com/junior875/nfcePt2/internal/nfce/service"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"go.uber.org/fx"
)

var Module = fx.Module("nfce.service",
	fx.Provide(builder.New),
	fx.Provide(repository.New),
	fx.Provide(func(c *nuvemfiscal.Client) domain.Provider { return c }),
	fx.Provide(service.New),
)
