package client

type SendMessageRequest struct {
	Content string `json:"content"`
}
