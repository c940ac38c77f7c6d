package model

type ShopItem struct {
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Active   bool   `json:"active,omitempty"`
	Unlocked bool   `json:"unlocked,omitempty"`
}

type GetCatalogRequest struct {
	Kind string `json:"kind"`
}

type GetCatalogResponse struct {
	Items []ShopItem `json:"items"`
}

type BuyRequest struct {
	Kind string `json:"kind"`
	Item string `json:"item"`
}

type BuyResponse struct {
	NewPoints int     `json:"new_points"`
	NewColor  string  `json:"new_color,omitempty"`
	NewFont   *string `json:"new_font,omitempty"`
}

type GetEffectInventoryRequest struct{}

type GetEffectInventoryResponse struct {
	Inventory map[string]int `json:"inventory"`
}

type GetUnlockedSmiliesRequest struct{}

type GetUnlockedSmiliesResponse struct {
	Smilies []string `json:"smilies"`
}
