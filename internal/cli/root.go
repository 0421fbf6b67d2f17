// Package cli implements the identifyme command line: gallery maintenance,
// single-image recognition and replay of recorded frames.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/face"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
)

// Build metadata variables, set by -ldflags at compile time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// App holds what the commands operate on.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Gallery    *service.GalleryManager
	Recognizer *service.Recognizer
	close      func()
}

func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Builder constructs the App once per command invocation.
type Builder func(ctx context.Context, stderr io.Writer) (*App, error)

// FromConfig builds the App from the environment, .env and CONFIG_FILE.
func FromConfig(ctx context.Context, stderr io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := config.NewLoggerTo(stderr, cfg.Environment)

	enc, err := face.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := face.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("gallery opened",
		slog.String("backend", cfg.GalleryBackend),
		slog.String("encoder", cfg.Encoder),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Gallery:    service.NewGalleryManager(store, enc),
		Recognizer: service.NewRecognizer(store, enc),
		close: func() {
			if c, ok := enc.(provider.Closer); ok {
				_ = c.Close()
			}
			if c, ok := store.(io.Closer); ok {
				_ = c.Close()
			}
		},
	}, nil
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *App {
	return cmd.Context().Value(appKey{}).(*App)
}

// NewRootCommand wires every subcommand. Commands that touch the gallery get
// their App from build in PersistentPreRunE.
func NewRootCommand(build Builder) *cobra.Command {
	root := &cobra.Command{
		Use:   "identifyme",
		Short: "Identify known people in photos against a gallery of reference faces",
		Long: `IDentifyMe keeps a gallery of known people, each with a reference photo
and a face encoding, and labels the faces in new images with the closest
person within a distance tolerance.

Configuration comes from the environment, an optional .env file and the
YAML file named by CONFIG_FILE.`,
		SilenceUsage: true,
	}

	gallery := []*cobra.Command{
		newRebuildCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newLookupCmd(),
		newDeleteCmd(),
		newListCmd(),
		newRecognizeCmd(),
		newWatchCmd(),
	}
	for _, c := range gallery {
		c.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			slog.SetDefault(app.Logger)
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		}
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer appFrom(cmd).Close()
			return run(cmd, args)
		}
		root.AddCommand(c)
	}
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI against the real configuration and exits non-zero on
// failure.
func Execute() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	root := NewRootCommand(FromConfig)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
