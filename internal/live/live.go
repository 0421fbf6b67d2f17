// Package live runs recognition over a stream of frames, one at a time.
package live

import (
	"context"
	"fmt"
	"image"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// FrameSource yields frames until it fails. Next blocks until a frame is
// available; the end of a finite source is reported as io.EOF.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// Recognizer is satisfied by *service.Recognizer.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, tolerance float64) (*domain.Recognition, error)
}

// Sink receives the result for frame seq, counted from 0.
type Sink func(ctx context.Context, seq int, rec *domain.Recognition) error

// Run recognizes frames from src until the source fails, the sink or the
// recognizer returns an error, or ctx is cancelled. A source failure,
// including io.EOF, is returned as domain.ErrCaptureFailure wrapping the
// cause. src is closed before Run returns.
func Run(ctx context.Context, src FrameSource, rec Recognizer, tolerance float64, sink Sink) error {
	defer func() { _ = src.Close() }()

	for seq := 0; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return domain.ErrCaptureFailure.WithError(fmt.Errorf("frame %d: %w", seq, err))
		}

		result, err := rec.Recognize(ctx, frame, tolerance)
		if err != nil {
			return fmt.Errorf("recognize frame %d: %w", seq, err)
		}

		if err := sink(ctx, seq, result); err != nil {
			return fmt.Errorf("deliver frame %d: %w", seq, err)
		}
	}
}
