package dto

type HeliusRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type GetAssetsByOwnerParams struct {
	OwnerAddress   string               `json:"ownerAddress"`
	Page           int                  `json:"page"`
	Limit          int                  `json:"limit,omitempty"`
	DisplayOptions AssetsDisplayOptions `json:"displayOptions"`
}

type AssetsDisplayOptions struct {
	ShowFungible bool `json:"showFungible"`
}

type HeliusRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type GetAssetsByOwnerResponse struct {
	Result *struct {
		Total int     `json:"total"`
		Items []Asset `json:"items"`
	} `json:"result"`
	Error *HeliusRPCError `json:"error"`
}

type Asset struct {
	ID        string       `json:"id"`
	Interface string       `json:"interface"`
	Content   AssetContent `json:"content"`
	TokenInfo *AssetToken  `json:"token_info,omitempty"`
}

type AssetContent struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
}

type AssetToken struct {
	Symbol    string          `json:"symbol"`
	Balance   float64         `json:"balance"`
	Decimals  int             `json:"decimals"`
	PriceInfo *AssetPriceInfo `json:"price_info,omitempty"`
}

type AssetPriceInfo struct {
	PricePerToken float64 `json:"price_per_token"`
	TotalPrice    float64 `json:"total_price"`
	Currency      string  `json:"currency"`
}

// Symbol prefers the token symbol and falls back to metadata.
func (a Asset) Symbol() string {
	if a.TokenInfo != nil && a.TokenInfo.Symbol != "" {
		return a.TokenInfo.Symbol
	}
	if a.Content.Metadata.Symbol != "" {
		return a.Content.Metadata.Symbol
	}
	return a.Content.Metadata.Name
}

// UIBalance is the balance scaled by the token decimals.
func (a Asset) UIBalance() float64 {
	if a.TokenInfo == nil {
		return 0
	}
	balance := a.TokenInfo.Balance
	for i := 0; i < a.TokenInfo.Decimals; i++ {
		balance /= 10
	}
	return balance
}

func (a Asset) USDValue() float64 {
	if a.TokenInfo == nil || a.TokenInfo.PriceInfo == nil {
		return 0
	}
	return a.TokenInfo.PriceInfo.TotalPrice
}
