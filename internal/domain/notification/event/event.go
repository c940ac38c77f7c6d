package event

type Event interface {
	Op() string
}

// Metadata controls delivery. An empty To means broadcast to every session;
// otherwise the event is directed to the session with that connection id.
type Metadata struct {
	To string `json:"-"`
}

type EventRequest struct {
	Op       string   `json:"o"`
	Data     any      `json:"d"`
	Metadata Metadata `json:"-"`
}

func New(ev Event, metadata *Metadata) *EventRequest {
	if metadata == nil {
		metadata = &Metadata{}
	}

	return &EventRequest{
		Op:       ev.Op(),
		Data:     ev,
		Metadata: *metadata,
	}
}
