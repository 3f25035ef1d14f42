package repository

import (
	"context"
	"fmt"
	"sort"

	"token-signal-bot/config"
	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/cache"
	"token-signal-bot/pkg/httpclient"
	"token-signal-bot/pkg/logger"

	"github.com/google/uuid"
)

const (
	heliusAssetsPageLimit = 100
	keyHeliusAssets       = "helius_assets:%s"
)

// AssetRepository looks up the fungible tokens held by a wallet.
type AssetRepository interface {
	// GetAssetsByOwner returns holdings sorted by USD value, largest first.
	GetAssetsByOwner(ctx context.Context, ownerAddress string) ([]dto.Asset, error)
}

type heliusRepository struct {
	cfg           *config.Helius
	httpClient    httpclient.HTTPClient
	inmemoryCache cache.Cache
	log           *logger.Logger
}

// NewHeliusRepository keeps each wallet's holdings in inmemoryCache for
// cfg.AssetsCacheDuration; a zero duration disables caching.
func NewHeliusRepository(cfg *config.Helius, inmemoryCache cache.Cache, log *logger.Logger) AssetRepository {
	return &heliusRepository{
		cfg: cfg,
		httpClient: httpclient.New(httpclient.Options{
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			QueryParams: map[string]string{"api-key": cfg.APIKey},
			RetryCount:  1,
		}),
		inmemoryCache: inmemoryCache,
		log:           log,
	}
}

func (r *heliusRepository) GetAssetsByOwner(ctx context.Context, ownerAddress string) ([]dto.Asset, error) {
	key := fmt.Sprintf(keyHeliusAssets, ownerAddress)
	if val, found := cache.GetTyped[[]dto.Asset](r.inmemoryCache, key); found {
		return val, nil
	}

	assets, err := r.fetchAssets(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	if r.cfg.AssetsCacheDuration > 0 {
		r.inmemoryCache.Set(key, assets, r.cfg.AssetsCacheDuration)
	}
	return assets, nil
}

func (r *heliusRepository) fetchAssets(ctx context.Context, ownerAddress string) ([]dto.Asset, error) {
	payload := dto.HeliusRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "getAssetsByOwner",
		Params: dto.GetAssetsByOwnerParams{
			OwnerAddress:   ownerAddress,
			Page:           1,
			Limit:          heliusAssetsPageLimit,
			DisplayOptions: dto.AssetsDisplayOptions{ShowFungible: true},
		},
	}

	var result dto.GetAssetsByOwnerResponse
	if _, err := r.httpClient.Post(ctx, "/", payload, &result); err != nil {
		r.log.ErrorContext(ctx, "Failed to get assets from helius",
			logger.StringField("owner", ownerAddress), logger.ErrorField(err))
		return nil, fmt.Errorf("helius getAssetsByOwner: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("helius getAssetsByOwner: %d %s", result.Error.Code, result.Error.Message)
	}
	if result.Result == nil {
		return nil, nil
	}

	assets := make([]dto.Asset, 0, len(result.Result.Items))
	for _, item := range result.Result.Items {
		if item.TokenInfo == nil {
			continue
		}
		assets = append(assets, item)
	}
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].USDValue() > assets[j].USDValue()
	})
	return assets, nil
}
