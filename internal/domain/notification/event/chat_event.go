package event

import "github.com/whazzastream/backend/internal/model"

// RECEIVE MESSAGE EVENT
type ReceiveMessageEvent model.ChatMessage

func (*ReceiveMessageEvent) Op() string {
	return "receive_message"
}

// CHAT HISTORY EVENT
type ChatHistoryEvent struct {
	Messages []model.ChatMessage `json:"messages"`
}

func (*ChatHistoryEvent) Op() string {
	return "chat_history"
}

// SMILIE ERROR EVENT
type SmilieErrorEvent struct {
	Message string `json:"message"`
}

func (*SmilieErrorEvent) Op() string {
	return "smilie_error"
}
