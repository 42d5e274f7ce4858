package certificado

import (
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"go.uber.org/fx"
)

var Module = fx.Module("certificado.service",
	fx.Provide(func(c *nuvemfiscal.Client) Provider { return c }),
	fx.Provide(New),
)
