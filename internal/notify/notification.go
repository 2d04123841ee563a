package notify

import (
	"github.com/recipeinbox/backend/internal/domain"
)

// MaxPushBodyLength bounds the message body carried in push payloads.
// Provider payloads are capped at 4KB; the remainder is left for the envelope.
const MaxPushBodyLength = 1000

// Event type strings, "<domain>:<event>"
const (
	EventMessageNew = "messages:new"
)

// Notification is one event addressed to one user.
// Payload goes to live subscribers as is; PushPayload, when set, replaces it on push channels.
type Notification struct {
	Payload     interface{}
	PushPayload interface{}
	Type        string
}

// pushPayload returns the variant sized for push providers
func (n *Notification) pushPayload() interface{} {
	if n.PushPayload != nil {
		return n.PushPayload
	}
	return n.Payload
}

// MessagePayload is the payload of a messages:new event
type MessagePayload struct {
	OtherUser *domain.UserSummary   `json:"otherUser"`
	FromUser  *domain.UserSummary   `json:"fromUser"`
	ToUser    *domain.UserSummary   `json:"toUser"`
	Recipe    *MessageRecipePayload `json:"recipe,omitempty"`
	ID        string                `json:"id"`
	Body      string                `json:"body"`
}

// MessageRecipePayload carries the shared recipe's id, title and image location
type MessageRecipePayload struct {
	Image MessageImagePayload `json:"image"`
	ID    string              `json:"id"`
	Title string              `json:"title"`
}

// MessageImagePayload is empty when the recipe has no image
type MessageImagePayload struct {
	Location string `json:"location,omitempty"`
}

// NewMessageNotification builds the messages:new notification for the recipient of msg.
// msg must be hydrated (FromUser, ToUser and Recipe loaded).
func NewMessageNotification(msg *domain.Message) *Notification {
	resp := msg.ToResponse(msg.ToUserID)

	full := &MessagePayload{
		ID:        resp.ID,
		Body:      resp.Body,
		OtherUser: resp.OtherUser,
		FromUser:  resp.FromUser,
		ToUser:    resp.ToUser,
	}
	if msg.Recipe != nil {
		full.Recipe = &MessageRecipePayload{ID: msg.Recipe.ID, Title: msg.Recipe.Title}
		if msg.Recipe.Image != nil {
			full.Recipe.Image.Location = msg.Recipe.Image.Location
		}
	}

	trimmed := *full
	trimmed.Body = truncate(full.Body, MaxPushBodyLength)

	return &Notification{
		Type:        EventMessageNew,
		Payload:     full,
		PushPayload: &trimmed,
	}
}

// JobStatus is the state reported by background jobs
type JobStatus int

const (
	JobComplete JobStatus = iota
	JobFailed
	JobWorking
)

func (s JobStatus) event() (string, bool) {
	switch s {
	case JobComplete:
		return "complete", true
	case JobFailed:
		return "failed", true
	case JobWorking:
		return "working", true
	default:
		return "", false
	}
}

// JobStatusPayload is the payload of a "<job>:<status>" event
type JobStatusPayload struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// NewJobStatusNotification builds e.g. "import:pepperplate:failed".
// ok is false for statuses that are not reported.
func NewJobStatusNotification(job string, status JobStatus, reason string) (n *Notification, ok bool) {
	event, ok := status.event()
	if !ok {
		return nil, false
	}
	if reason == "" {
		reason = "status"
	}
	eventType := job + ":" + event
	return &Notification{
		Type:    eventType,
		Payload: &JobStatusPayload{Type: eventType, Reason: reason},
	}, true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
