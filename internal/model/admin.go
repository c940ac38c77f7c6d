package model

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	Color    string `json:"color"`
}

type CreateUserResponse struct{}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

type DeleteUserResponse struct{}

type ChangePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_pw"`
}

type ChangePasswordResponse struct{}

type ToggleUserRequest struct {
	Username string `json:"username"`
	Active   *bool  `json:"active"`
}

type ToggleUserResponse struct{}

type UpdateUserRequest struct {
	Username    string  `json:"username"`
	NewPassword string  `json:"new_pw"`
	Color       *string `json:"color"`
	Points      *int    `json:"points"`
}

type UpdateUserResponse struct{}

type GetUserInfoRequest struct {
	Username string `json:"username"`
}

type GetUserInfoResponse struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	Points   int    `json:"points"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []GetUserInfoResponse `json:"users"`
}

type ClearChatRequest struct{}

type ClearChatResponse struct{}

type AddStreamKeyRequest struct {
	Key string `json:"stream_key"`
}

type AddStreamKeyResponse struct{}

type DeleteStreamKeyRequest struct {
	ID int64 `json:"id"`
}

type DeleteStreamKeyResponse struct{}

type ListStreamKeysRequest struct{}

type ListStreamKeysResponse struct {
	Keys []StreamKeyInfo `json:"keys"`
}

type StreamKeyInfo struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

type UpdateRewardsRequest struct {
	SmilieCost          int `json:"smilie_cost"`
	DailyBonus          int `json:"daily_bonus"`
	StreamBonusPoints   int `json:"stream_bonus_points"`
	StreamBonusInterval int `json:"stream_bonus_interval"`
}

type UpdateRewardsResponse struct{}

type UpdateStreamSuffixRequest struct {
	StreamSuffix string `json:"stream_suffix"`
}

type UpdateStreamSuffixResponse struct{}

type UpdateHlsSecretRequest struct {
	Secret string `json:"hls_secret"`
}

type UpdateHlsSecretResponse struct{}

type UpdateDiscordWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
	Username   string `json:"webhook_username"`
	AvatarURL  string `json:"webhook_avatar"`
}

type UpdateDiscordWebhookResponse struct{}

type SendDiscordRequest struct {
	Text string `json:"text"`
}

type SendDiscordResponse struct{}

type UploadSmilieRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`

	// Image is the base64-encoded .webp payload.
	Image string `json:"image"`
}

type UploadSmilieResponse struct{}

type DeleteSmilieRequest struct {
	Name string `json:"name"`
}

type DeleteSmilieResponse struct{}

type UpdateSmiliePricesRequest struct {
	Prices map[string]int `json:"prices"`
}

type UpdateSmiliePricesResponse struct{}
