package realtime

// Event is a realtime frame pushed to a connected client.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	// EventNotification carries {screen, notification_id, params} for
	// deep-link routing on tap.
	EventNotification = "notification"

	// EventForceLogout tells the client to drop its session and route to
	// the login screen. Issued when an admin bans the account.
	EventForceLogout = "force_logout"

	EventNewMessage = "new_message"
	EventTyping     = "typing"
)
