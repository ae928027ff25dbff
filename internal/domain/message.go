package domain

import "time"

// Inbound is a chat message stripped of transport details
type Inbound struct {
	SenderID   int64
	SenderName string
	ChatID     int64
	Text       string
}

// Reply is a message the bot sends back
type Reply struct {
	Text string
	// Menu attaches the two-button main keyboard
	Menu bool
	// Cancelable attaches the inline cancel button
	Cancelable bool
}

// FetchLog records the outcome of one grades fetch
type FetchLog struct {
	ID        int
	UserID    int64
	Outcome   string
	Records   int
	CreatedAt time.Time
}
