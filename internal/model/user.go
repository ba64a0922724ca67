package model

// Context keys for identity claims extracted from the access token.
// The messaging service does not own users, it only needs to know who is
// attached to a live session.
const (
	UserIDKey   = "user_id"
	UserNameKey = "username"
)
