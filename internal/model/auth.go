package model

// AccessToken is the object signed into the JWT handed out at login.
type AccessToken struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	Color       string `json:"color"`

	// DailyBonus is the number of points granted by this login, zero if the
	// bonus was already claimed today.
	DailyBonus int `json:"daily_bonus"`
	Points     int `json:"points"`
}

func (r *LoginResponse) SessionInfo() map[string]any {
	return map[string]any{
		"username": r.Username,
		"is_admin": r.IsAdmin,
		"color":    r.Color,
	}
}

type LogoutRequest struct{}

type LogoutResponse struct{}
