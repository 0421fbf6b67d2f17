package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/live"
)

func newRecognizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "Recognize the faces of a photo",
		Args:  cobra.NoArgs,
		RunE:  runRecognize,
	}
	cmd.Flags().String("image", "", "Photo to recognize")
	cmd.Flags().Float64("tolerance", 0, "Match tolerance in [0, 1] (default: TOLERANCE)")
	cmd.Flags().String("out", "", "Write the annotated photo to this JPEG file")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func runRecognize(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	tol, err := tolerance(cmd, app)
	if err != nil {
		return err
	}
	img, err := readImage(mustGetString(cmd, "image"))
	if err != nil {
		return err
	}

	result, err := app.Recognizer.Recognize(cmd.Context(), img, tol)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printFaces(out, result)
	fmt.Fprintf(out, "Name: %s\nID:   %s\n", result.Name, result.ID)

	if path := mustGetString(cmd, "out"); path != "" {
		data, err := imaging.EncodeJPEG(result.Annotated)
		if err != nil {
			return fmt.Errorf("encode annotated image: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Annotated: %s\n", path)
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recognize a sequence of frames from a directory",
		Long: `Replays the images of a directory in name order as a live feed and prints
the recognized faces of every frame. Stops at the last frame or on interrupt.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().String("dir", "", "Directory of frames")
	cmd.Flags().Float64("tolerance", 0, "Match tolerance in [0, 1] (default: TOLERANCE)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	tol, err := tolerance(cmd, app)
	if err != nil {
		return err
	}
	src, err := live.NewDirectorySource(mustGetString(cmd, "dir"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	frames := 0
	sink := func(ctx context.Context, seq int, rec *domain.Recognition) error {
		frames++
		fmt.Fprintf(out, "frame %d: %d face(s)\n", seq, len(rec.Faces))
		printFaces(out, rec)
		return nil
	}

	err = live.Run(cmd.Context(), src, app.Recognizer, tol, sink)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	fmt.Fprintf(out, "Processed %d of %d frames\n", frames, src.Len())
	return nil
}

func printFaces(w io.Writer, rec *domain.Recognition) {
	for i, f := range rec.Faces {
		if f.Match.Distance == nil {
			fmt.Fprintf(w, "  face %d %v: %s\n", i, f.Box.Rect(), f.Match.Name)
			continue
		}
		fmt.Fprintf(w, "  face %d %v: %s (%s) distance %.2f\n",
			i, f.Box.Rect(), f.Match.Name, f.Match.ID, *f.Match.Distance)
	}
}
