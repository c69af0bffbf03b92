// internal/models/chat.go
package models

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

type ChatPart struct {
	Text string `json:"text"`
}

type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

type ChatHistory []ChatTurn
