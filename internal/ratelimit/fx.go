package ratelimit

import (
	"github.com/junior875/nfcePt2/internal/config"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("ratelimit",
	fx.Provide(provideEmissaoLimiter),
)

func provideEmissaoLimiter(cfg config.Config, log *zap.Logger) (nfcedomain.EmissaoLimiter, error) {
	limiter, err := NewEmissaoLimiter(cfg, log)
	if err != nil {
		return nil, err
	}
	if limiter == nil {
		// disabled: issuance proceeds unthrottled
		return nil, nil
	}
	return limiter, nil
}
