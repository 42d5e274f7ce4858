package danfe

import "go.uber.org/fx"

var Module = fx.Module("danfe.service",
	fx.Provide(New),
)
