package entities

// ChatRequest is the inbound assistant request payload
type ChatRequest struct {
	Message     string                 `json:"message"`
	UserID      string                 `json:"userId,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
	MarketSlug  string                 `json:"marketSlug,omitempty"`
}

// ChatResponse is the assistant answer plus cache provenance
type ChatResponse struct {
	Answer string `json:"answer"`
	Cached bool   `json:"cached"`
}
