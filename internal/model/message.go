package model

// Message
// @Description A direct message between two platform users. IDs are opaque
// @Description strings assigned by the store on first insert.
type Message struct {
	ID            string    `db:"id"             example:"b4b03119-1290-44bc-b599-6a5e91d6611f"       json:"id"`            // Opaque message id
	SenderID      int64     `db:"sender_id"      example:"100"                                        json:"senderId"`      // Sending user
	ReceiverID    int64     `db:"receiver_id"    example:"200"                                        json:"receiverId"`    // Receiving user
	Content       string    `db:"content"        example:"Hello, interested in the position"          json:"content"`       // Free-form text body
	IsRead        bool      `db:"is_read"        example:"false"                                      json:"isRead"`        // Read flag, one-way false -> true
	SentAt        Timestamp `db:"sent_at"        example:"2025-01-02T15:04:05.000+00:00"              json:"sentAt"        swaggertype:"string"` // Send timestamp, UTC
	ApplicationID *int64    `db:"application_id" example:"1"                                          json:"applicationId,omitempty"`           // Optional linked job application
} // @Name Message

// MessageCreateRequest
// @Description Payload for sending a message. isRead and sentAt are
// @Description optional, absent fields are populated before the save.
type MessageCreateRequest struct {
	SenderID      int64      `binding:"required" example:"100"                               json:"senderId"`
	ReceiverID    int64      `binding:"required" example:"200"                               json:"receiverId"`
	Content       string     `example:"Hello, interested in the position"                    json:"content"`
	ApplicationID *int64     `example:"1"                                                    json:"applicationId,omitempty"`
	IsRead        *bool      `example:"false"                                                json:"isRead,omitempty"`
	SentAt        *Timestamp `example:"2025-01-02T15:04:05.000+00:00"                        json:"sentAt,omitempty" swaggertype:"string"`
} // @Name MessageCreateRequest

// MessageDTO is the receiver-facing transfer payload pushed to the
// recipient's live session. Field-for-field copy of the saved record.
type MessageDTO struct {
	ID            string    `json:"id"`
	SenderID      int64     `json:"senderId"`
	ReceiverID    int64     `json:"receiverId"`
	Content       string    `json:"content"`
	IsRead        bool      `json:"isRead"`
	SentAt        Timestamp `json:"sentAt"`
	ApplicationID *int64    `json:"applicationId,omitempty"`
} // @Name MessageDTO

// ToDTO maps a saved record to its transfer payload.
func (m *Message) ToDTO() *MessageDTO {
	return &MessageDTO{
		ID:            m.ID,
		SenderID:      m.SenderID,
		ReceiverID:    m.ReceiverID,
		Content:       m.Content,
		IsRead:        m.IsRead,
		SentAt:        m.SentAt,
		ApplicationID: m.ApplicationID,
	}
}

type MessageIDPathParam struct {
	ID string `binding:"required" example:"b4b03119-1290-44bc-b599-6a5e91d6611f" uri:"id"`
}

type UserIDPathParam struct {
	UserID int64 `binding:"required" example:"100" uri:"user_id"`
}

type ConversationQueryParams struct {
	User1ID int64 `binding:"required" example:"100" form:"user1Id"`
	User2ID int64 `binding:"required" example:"200" form:"user2Id"`
}

type ConversationReadQueryParams struct {
	UserID      int64 `binding:"required" example:"100" form:"userId"`
	OtherUserID int64 `binding:"required" example:"200" form:"otherUserId"`
}

type MessageSearchQueryParams struct {
	Query string `binding:"required" example:"position" form:"q"`
}
