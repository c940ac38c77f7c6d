package model

// SendMessageEvent is the inbound chat payload. Effect is optional; an
// unknown or out-of-stock effect is dropped silently.
type SendMessageEvent struct {
	Username string `json:"username" mapstructure:"username"`
	Text     string `json:"text" mapstructure:"text"`
	Effect   string `json:"effect" mapstructure:"effect"`
}

// UserOnlineEvent announces the connection's user for presence tracking.
type UserOnlineEvent struct {
	Username string `json:"username" mapstructure:"username"`
}

// ChatMessage is the outbound message shape. Text is HTML-escaped for
// transport; the stored message keeps the raw text.
type ChatMessage struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	Color          string   `json:"color"`
	Font           *string  `json:"font"`
	Effect         *string  `json:"effect"`
	Text           string   `json:"text"`
	VisibleSmilies []string `json:"visible_smilies,omitempty"`
}

type OnlineUser struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
	Color    string `json:"color"`
}

// UserData carries a user's refreshed live state after an economy change.
type UserData struct {
	Username string         `json:"username"`
	Points   *int           `json:"points,omitempty"`
	Color    string         `json:"color,omitempty"`
	Font     *string        `json:"font,omitempty"`
	Effects  map[string]int `json:"effects,omitempty"`
}
