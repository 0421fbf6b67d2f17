package ws

import (
	"time"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

type EventType string

const (
	EventFrameRecognized EventType = "frame.recognized"
	EventCaptureFailed   EventType = "capture.failed"
	EventPersonAdded     EventType = "person.added"
	EventPersonUpdated   EventType = "person.updated"
	EventPersonDeleted   EventType = "person.deleted"
	EventGalleryRebuilt  EventType = "gallery.rebuilt"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// FrameData is the payload of a frame.recognized event.
type FrameData struct {
	Session string              `json:"session"`
	Seq     int                 `json:"seq"`
	Name    string              `json:"name"`
	ID      string              `json:"id"`
	Faces   []domain.FaceResult `json:"faces"`
}

// FailureData is the payload of a capture.failed event.
type FailureData struct {
	Session string `json:"session"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PersonData is the payload of the person.* events.
type PersonData struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// RebuildData is the payload of a gallery.rebuilt event.
type RebuildData struct {
	Count int `json:"count"`
}
