package marketdata

import (
	"strings"

	"github.com/cryptoedge/cadvi/internal/model"
)

// Wire shapes for the CoinMarketCap v1 API. Only the fields the scanner
// consumes are decoded; everything else is dropped at the JSON layer.

type listingsResponse struct {
	Status apiStatus `json:"status"`
	Data   []Listing `json:"data"`
}

type quotesResponse struct {
	Status apiStatus          `json:"status"`
	Data   map[string]Listing `json:"data"`
}

type apiStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Listing is one raw asset entry as returned by the listings endpoint.
type Listing struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Symbol   string            `json:"symbol"`
	Slug     string            `json:"slug"`
	Tags     []string          `json:"tags"`
	Platform *Platform         `json:"platform"`
	Quote    map[string]Quote  `json:"quote"`
}

// Platform identifies the chain a token is issued on.
type Platform struct {
	Name         string `json:"name"`
	TokenAddress string `json:"token_address"`
}

// Quote carries the per-currency market metrics.
type Quote struct {
	Price              float64 `json:"price"`
	MarketCap          float64 `json:"market_cap"`
	Volume24h          float64 `json:"volume_24h"`
	VolumeChange24h    float64 `json:"volume_change_24h"`
	PercentChange1h    float64 `json:"percent_change_1h"`
	PercentChange24h   float64 `json:"percent_change_24h"`
	PercentChange7d    float64 `json:"percent_change_7d"`
	PercentChange30d   float64 `json:"percent_change_30d"`
	PercentChange60d   float64 `json:"percent_change_60d"`
	PercentChange90d   float64 `json:"percent_change_90d"`
	MarketCapDominance float64 `json:"market_cap_dominance"`
}

// Exchange listing tags checked on each asset.
const (
	tagBinanceListing    = "binance-listing"
	tagCoinbaseListing   = "coinbase-listing"
	tagCoinbasePortfolio = "coinbase-ventures-portfolio"
)

// toAssetRecord reshapes one raw listing into the engine's row schema.
// A listing without a quote in the requested currency is unusable.
// Missing optional fields keep their zero values.
func toAssetRecord(l Listing, convert string) (model.AssetRecord, bool) {
	quote, ok := l.Quote[strings.ToUpper(convert)]
	if !ok {
		return model.AssetRecord{}, false
	}

	rec := model.AssetRecord{
		Symbol:          l.Symbol,
		Name:            l.Name,
		ID:              l.ID,
		Slug:            l.Slug,
		Price:           quote.Price,
		MarketCap:       quote.MarketCap,
		Volume24h:       quote.Volume24h,
		VolumeChange24h: quote.VolumeChange24h,
		Change1h:        quote.PercentChange1h,
		Change24h:       quote.PercentChange24h,
		Change7d:        quote.PercentChange7d,
		Change30d:       quote.PercentChange30d,
		Change60d:       quote.PercentChange60d,
		Change90d:       quote.PercentChange90d,
		Dominance:       quote.MarketCapDominance,
	}

	if l.Platform != nil {
		rec.Platform = l.Platform.Name
		rec.ContractAddress = l.Platform.TokenAddress
	}

	for _, tag := range l.Tags {
		switch tag {
		case tagBinanceListing:
			rec.OnBinance = true
		case tagCoinbaseListing, tagCoinbasePortfolio:
			rec.OnCoinbase = true
		}
	}

	return rec, true
}
