package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/live"
)

var errTextFrame = errors.New("frames must be sent as binary messages")

// Session adapts one live websocket connection to a live.FrameSource and a
// live.Sink. Each binary message is one encoded frame.
type Session struct {
	id       string
	conn     Conn
	annotate bool
}

var _ live.FrameSource = (*Session)(nil)

func NewSession(conn Conn, annotate bool) *Session {
	return &Session{
		id:       uuid.NewString(),
		conn:     conn,
		annotate: annotate,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msgType, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msgType != websocket.BinaryMessage {
		return nil, errTextFrame
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Close is a no-op: the connection outlives the loop so the handler can report
// why it ended.
func (s *Session) Close() error {
	return nil
}

// Deliver writes the frame.recognized event and, when annotation was
// requested, the annotated frame as a binary JPEG message.
func (s *Session) Deliver(ctx context.Context, seq int, rec *domain.Recognition) error {
	err := s.writeEvent(EventFrameRecognized, FrameData{
		Session: s.id,
		Seq:     seq,
		Name:    rec.Name,
		ID:      rec.ID,
		Faces:   rec.Faces,
	})
	if err != nil {
		return err
	}

	if !s.annotate || rec.Annotated == nil {
		return nil
	}
	jpg, err := imaging.EncodeJPEG(rec.Annotated)
	if err != nil {
		return fmt.Errorf("encode annotated frame: %w", err)
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, jpg)
}

// Fail reports err to the client as a capture.failed event.
func (s *Session) Fail(err error) error {
	data := FailureData{
		Session: s.id,
		Code:    domain.ErrInternal.Code,
		Message: err.Error(),
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		data.Code = appErr.Code
	}
	return s.writeEvent(EventCaptureFailed, data)
}

func (s *Session) writeEvent(t EventType, data interface{}) error {
	msg, err := json.Marshal(Event{Type: t, Data: data, Timestamp: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", t, err)
	}
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}
