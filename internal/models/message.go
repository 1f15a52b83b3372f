package models

// Message is a single chat message. Timestamp is ISO 8601 (RFC 3339) UTC.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
