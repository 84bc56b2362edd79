package updates

import "time"

// DefaultEventType is used when a client does not say what happened.
const DefaultEventType = "update"

// Update is one document-update telemetry record. The Office task pane sends
// {timestamp, documentName, contentLength, eventType}; older clients send
// {timestamp, previousLength, currentLength}. Lengths are pointers so an
// absent field stays distinguishable from an empty document.
type Update struct {
	ID             string    `json:"id" bson:"_id"`
	Timestamp      string    `json:"timestamp" bson:"timestamp"`
	DocumentName   string    `json:"documentName,omitempty" bson:"documentName,omitempty"`
	ContentLength  *int64    `json:"contentLength,omitempty" bson:"contentLength,omitempty"`
	PreviousLength *int64    `json:"previousLength,omitempty" bson:"previousLength,omitempty"`
	CurrentLength  *int64    `json:"currentLength,omitempty" bson:"currentLength,omitempty"`
	EventType      string    `json:"eventType" bson:"eventType"`
	ReceivedAt     time.Time `json:"receivedAt" bson:"receivedAt"`
}

// Filter narrows a listing. Limit keeps the most recent N records; zero means all.
type Filter struct {
	DocumentName string
	Limit        int
}

// Int64 is a helper for filling the optional length fields.
func Int64(v int64) *int64 { return &v }
