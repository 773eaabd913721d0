package kafka

import (
	"encoding/json"
	"time"
)

const (
	EventHeaderCreated    = "val.header.created"
	EventDetailsSaved     = "val.details.saved"
	EventDocumentRendered = "val.document.rendered"
)

// Event is a document lifecycle notification. Data depends on Type.
type Event struct {
	Type      string    `json:"type"`
	ValID     int       `json:"valId"`
	UserID    string    `json:"userId,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	SpanID    string    `json:"spanId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type RenderedData struct {
	Pages       int `json:"pages"`
	Attachments int `json:"attachments"`
	Skipped     int `json:"skipped"`
	Bytes       int `json:"bytes"`
}

type DetailsSavedData struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

type HeaderCreatedData struct {
	PlanID        *int `json:"planId,omitempty"`
	DetailsCopied int  `json:"detailsCopied"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
