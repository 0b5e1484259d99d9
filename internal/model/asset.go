package model

import "fmt"

// AssetRecord is one market snapshot row for a single asset, as produced
// by the market data provider. Records are immutable for the lifetime of
// an analysis run.
type AssetRecord struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	ID              int64   `json:"id"`
	Slug            string  `json:"slug"`
	Platform        string  `json:"platform,omitempty"`
	ContractAddress string  `json:"contract_address,omitempty"`
	OnBinance       bool    `json:"on_binance"`
	OnCoinbase      bool    `json:"on_coinbase"`
	Price           float64 `json:"price"`
	MarketCap       float64 `json:"market_cap"`
	Volume24h       float64 `json:"volume_24h"`
	VolumeChange24h float64 `json:"volume_change_24h"`
	Change1h        float64 `json:"percent_change_1h"`
	Change24h       float64 `json:"percent_change_24h"`
	Change7d        float64 `json:"percent_change_7d"`
	Change30d       float64 `json:"percent_change_30d,omitempty"`
	Change60d       float64 `json:"percent_change_60d,omitempty"`
	Change90d       float64 `json:"percent_change_90d,omitempty"`
	Dominance       float64 `json:"market_cap_dominance"`
}

// IsToken reports whether the asset is a contract-bound token rather
// than a native chain asset.
func (r AssetRecord) IsToken() bool {
	return r.ContractAddress != ""
}

// Category is a trading venue classification for a scored asset.
type Category string

const (
	CategorySpot    Category = "spot"
	CategoryFutures Category = "futures"
	CategoryWeb3    Category = "web3"
)

// ParseCategory validates a user-supplied category name.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategorySpot, CategoryFutures, CategoryWeb3:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q, must be one of: spot, futures, web3", s)
}
