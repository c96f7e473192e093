package bridge

// Message is the envelope exchanged with the host frame. Event routes the
// message, Data carries the JSON-compatible payload. ID is stamped on
// outbound messages for tracing; correlation is by event name alone, so at
// most one request per distinct reply event name is safely in flight.
type Message struct {
	Event string         `json:"event"`
	ID    string         `json:"id,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}
