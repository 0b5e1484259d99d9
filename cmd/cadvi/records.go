package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/marketdata"
	"github.com/cryptoedge/cadvi/internal/model"
)

// loadRecords resolves the market snapshot: a saved listings payload
// when --input is set, otherwise a live CoinMarketCap fetch through the
// rate limiter, breaker and (if configured) Redis cache.
func loadRecords(ctx context.Context, cfg config.Config, inputPath string) ([]model.AssetRecord, error) {
	if inputPath != "" {
		records, err := marketdata.LoadListingsFile(inputPath, cfg.MarketData.Convert)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", inputPath).Int("records", len(records)).Msg("Loaded offline snapshot")
		return records, nil
	}

	var cache marketdata.Cache
	if cfg.MarketData.RedisAddr != "" {
		redisCache := marketdata.NewRedisCache(cfg.MarketData.RedisAddr)
		defer redisCache.Close()
		cache = redisCache
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		BaseURL:       cfg.MarketData.BaseURL,
		CacheTTL:      cfg.MarketData.CacheTTL,
		RatePerMinute: cfg.MarketData.RatePerMinute,
	}, cache)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	records, err := client.Listings(fetchCtx, cfg.MarketData.Limit, cfg.MarketData.Convert)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return records, nil
}
