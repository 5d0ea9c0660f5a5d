package domain

import "time"

// LogEntry is one append-only audit record of who did what.
type LogEntry struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Username  string    `json:"username" bson:"username"`
	Action    string    `json:"action" bson:"action"`
	Method    string    `json:"method" bson:"method"`
	Endpoint  string    `json:"endpoint" bson:"endpoint"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
