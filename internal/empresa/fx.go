package empresa

import (
	"github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/empresa/repository"
	"github.com/junior875/nfcePt2/internal/empresa/service"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"go.uber.org/fx"
)

var Module = fx.Module("empresa.service",
	fx.Provide(repository.New),
	fx.Provide(func(c *nuvemfiscal.Client) domain.Provider { return c }),
	fx.Provide(service.New),
)
