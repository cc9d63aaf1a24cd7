package webhooks

// WebhookEvent is the envelope Messenger posts to the webhook.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one page entry inside a webhook event.
type Entry struct {
	ID        string      `json:"id"`
	Time      int64       `json:"time"`
	Messaging []Messaging `json:"messaging"`
}

// Messaging is a single messaging event.
type Messaging struct {
	Sender    User     `json:"sender"`
	Recipient User     `json:"recipient"`
	Timestamp int64    `json:"timestamp"`
	Message   *Message `json:"message,omitempty"`
}

// User identifies a Messenger participant.
type User struct {
	ID string `json:"id"`
}

// Message carries the text of a messaging event.
type Message struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}
