package message

import "github.com/uptrace/bun"

type Message struct {
	bun.BaseModel `bun:"table:message,alias:m"`

	MessageID       int    `bun:"message_id,pk,autoincrement" json:"message_id"`
	PostedBy        int    `bun:"posted_by,notnull" json:"posted_by"`
	MessageText     string `bun:"message_text,notnull" json:"message_text" validate:"required"`
	TimePostedEpoch int64  `bun:"time_posted_epoch,notnull" json:"time_posted_epoch"`
}

// MessageRequest is the body of POST /messages. message_id is ignored.
type MessageRequest struct {
	MessageID       int    `json:"message_id"`
	PostedBy        int    `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

func (r MessageRequest) ToMessage() *Message {
	return &Message{
		PostedBy:        r.PostedBy,
		MessageText:     r.MessageText,
		TimePostedEpoch: r.TimePostedEpoch,
	}
}

// PatchMessageRequest is the body of PATCH /messages/{message_id}.
// Clients may send a whole message; only message_text is applied.
type PatchMessageRequest struct {
	MessageID       int    `json:"message_id"`
	PostedBy        int    `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}
