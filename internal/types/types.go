package types

// IsAuthenticatedRequest is the body of POST /api/auth/is-authenticated.
type IsAuthenticatedRequest struct {
	AuthToken string `json:"authToken"`
}

// IsAuthenticatedResponse always comes back with status 200; a failed
// verification is just authenticated=false.
type IsAuthenticatedResponse struct {
	Authenticated bool    `json:"authenticated"`
	Email         *string `json:"email,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// MessageRequest is the body of POST /api/message.
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse carries the plugin's reply. Handled is false when no
// intent matched the message.
type MessageResponse struct {
	Handled bool   `json:"handled"`
	Reply   string `json:"reply,omitempty"`
}
