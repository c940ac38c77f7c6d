package event

import "github.com/whazzastream/backend/internal/model"

// ONLINE USERS EVENT
type OnlineUsersEvent struct {
	Users []model.OnlineUser `json:"users"`
}

func (*OnlineUsersEvent) Op() string {
	return "online_users"
}

// USER DATA CHANGED EVENT
type UserDataChangedEvent model.UserData

func (*UserDataChangedEvent) Op() string {
	return "user_data_changed"
}

// FORCE LOGOUT EVENT
type ForceLogoutEvent struct{}

func (*ForceLogoutEvent) Op() string {
	return "force_logout"
}
