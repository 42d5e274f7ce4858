package nuvemfiscal

import (
	"github.com/junior875/nfcePt2/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("nuvemfiscal",
	fx.Provide(provideTokenSource),
	fx.Provide(provideClient),
)

func provideTokenSource(cfg config.Config) *TokenSource {
	return NewTokenSource(cfg.NuvemFiscal, nil)
}

func provideClient(cfg config.Config, tokens *TokenSource, log *zap.Logger) *Client {
	return NewClient(cfg.NuvemFiscal, tokens, log)
}
