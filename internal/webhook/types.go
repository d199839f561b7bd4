package webhook

// Event is the top-level webhook payload from the Messenger platform.
type Event struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one page entry in a webhook batch.
type Entry struct {
	ID        string      `json:"id"`
	Time      int64       `json:"time"`
	Messaging []Messaging `json:"messaging,omitempty"`
}

// Messaging is a single messaging event within an entry.
type Messaging struct {
	Sender    User     `json:"sender"`
	Recipient User     `json:"recipient"`
	Timestamp int64    `json:"timestamp"`
	Message   *Message `json:"message,omitempty"`
}

// User identifies a platform user by page-scoped ID.
type User struct {
	ID string `json:"id"`
}

// Message carries the message content. IsEcho marks messages the page
// itself sent; those are skipped.
type Message struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text"`
	IsEcho      bool         `json:"is_echo,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a non-text payload (image, sticker, audio).
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload holds the attachment content reference.
type AttachmentPayload struct {
	URL string `json:"url,omitempty"`
}
