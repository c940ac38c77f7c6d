package model

type HeartbeatRequest struct{}

type HeartbeatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Points  int    `json:"points"`
}

// GetStreamInfoResponse carries everything the stream page needs to render.
type GetStreamInfoResponse struct {
	Username      string         `json:"username"`
	Color         string         `json:"color"`
	Font          string         `json:"font"`
	Points        int            `json:"points"`
	EffectTokens  int            `json:"effect_tokens"`
	IsAdmin       bool           `json:"is_admin"`
	StreamSuffix  string         `json:"stream_suffix"`
	AccessToken   string         `json:"access_token"`
	BonusInterval int            `json:"bonus_interval"`
	BonusPoints   int            `json:"bonus_points"`
	HlsToken      string         `json:"hls_token"`
	Smilies       map[string]int `json:"smilies"`
}

type GetStreamInfoRequest struct{}
