package domain

// MessageType distinguishes chat message payloads.
type MessageType string

const (
	MessageText    MessageType = "TEXT"
	MessageImage   MessageType = "IMAGE"
	MessageDeleted MessageType = "DELETED"
)

func (t MessageType) String() string { return string(t) }

// Message is one chat message from the "messages" collection.
type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	Content   string
	Type      MessageType
	ImageURLs []string
}

// MessageFromFields maps a raw document into a Message.
func MessageFromFields(id string, fields map[string]any) Message {
	return Message{
		ID:        id,
		ChatID:    StringField(fields, "chatId"),
		SenderID:  StringField(fields, "senderId"),
		Content:   StringField(fields, "content"),
		Type:      MessageType(StringField(fields, "type")),
		ImageURLs: StringSliceField(fields, "imageUrls"),
	}
}
