package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/junior875/nfcePt2/internal/config"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"go.uber.org/zap"
)

const keyEmissaoCnpj = "nfce:emissao:cnpj:%s"

// EmissaoLimiter throttles issuance per merchant CNPJ using a shared
// redis token bucket. On redis failure the limiter fails open: losing
// throttling is cheaper than blocking fiscal issuance.
type EmissaoLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

func NewEmissaoLimiter(cfg config.Config, log *zap.Logger) (*EmissaoLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.EmissaoRate <= 0 || limitCfg.EmissaoBurst <= 0 {
		return nil, errors.New("emissao rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &EmissaoLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.EmissaoRate,
		burst:  limitCfg.EmissaoBurst,
		log:    log.Named("ratelimit.emissao"),
	}, nil
}

func (l *EmissaoLimiter) Allow(ctx context.Context, cnpj string) error {
	if l == nil {
		return nil
	}

	allowed, _, err := l.bucket.Allow(ctx, fmt.Sprintf(keyEmissaoCnpj, cnpj), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limiter indisponível, liberando emissão", zap.Error(err))
		return nil
	}
	if !allowed {
		return nfcedomain.ErrLimiteEmissao
	}
	return nil
}
