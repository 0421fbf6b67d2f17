package cli

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/imaging"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
)

func newRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the gallery from a dataset directory",
		Long: `Encodes every <id>_<name>.<ext> image of the dataset directory in file name
order and replaces the stored gallery. Indices are assigned 0..n-1.`,
		Args: cobra.NoArgs,
		RunE: runRebuild,
	}
	cmd.Flags().String("dir", "", "Dataset directory (default: DATASET_DIR)")
	return cmd
}

func runRebuild(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	dir := mustGetString(cmd, "dir")
	if dir == "" {
		dir = app.Config.DatasetDir
	}

	var bar *progressbar.ProgressBar
	progress := service.WithProgress(func(done, total int, file string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Encoding faces"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("images"),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionFullWidth(),
			)
		}
		_ = bar.Set(done)
		app.Logger.Debug("source encoded", slog.String("file", file))
	})

	g, err := app.Gallery.Rebuild(cmd.Context(), dir, progress)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d people from %s\n", g.Len(), dir)
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person to the gallery",
		Args:  cobra.NoArgs,
		RunE:  runAdd,
	}
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("id", "", "Unique identifier")
	cmd.Flags().String("image", "", "Reference photo")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	img, err := readImage(mustGetString(cmd, "image"))
	if err != nil {
		return err
	}

	rec, err := app.Gallery.AddOrUpdate(cmd.Context(), service.AddRequest{
		Name:  mustGetString(cmd, "name"),
		ID:    mustGetString(cmd, "id"),
		Image: img,
	})
	if err := reportOutcome(err); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at index %d\n", rec.Name, rec.ID, rec.Index)
	return nil
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the name, id or photo of a person in place",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}
	cmd.Flags().String("id", "", "Identifier of the person to update")
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("new-id", "", "New identifier")
	cmd.Flags().String("image", "", "New reference photo")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	current, err := app.Gallery.Lookup(cmd.Context(), mustGetString(cmd, "id"))
	if err != nil {
		return err
	}

	req := service.AddRequest{
		Name:        current.Name,
		ID:          current.ID,
		TargetIndex: &current.Index,
	}
	if current.Image != nil {
		req.Image = current.Image
	}
	if name := mustGetString(cmd, "name"); name != "" {
		req.Name = name
	}
	if id := mustGetString(cmd, "new-id"); id != "" {
		req.ID = id
	}
	if path := mustGetString(cmd, "image"); path != "" {
		img, err := readImage(path)
		if err != nil {
			return err
		}
		req.Image = img
	}

	rec, err := app.Gallery.AddOrUpdate(cmd.Context(), req)
	if err := reportOutcome(err); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated index %d: %s (%s)\n", rec.Index, rec.Name, rec.ID)
	return nil
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Show a person of the gallery",
		Args:  cobra.NoArgs,
		RunE:  runLookup,
	}
	cmd.Flags().String("id", "", "Identifier to look up")
	cmd.Flags().String("out", "", "Write the reference photo to this PNG file")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	rec, err := app.Gallery.Lookup(cmd.Context(), mustGetString(cmd, "id"))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Index: %d\nID:    %s\nName:  %s\n", rec.Index, rec.ID, rec.Name)

	if out := mustGetString(cmd, "out"); out != "" {
		if rec.Image == nil {
			return fmt.Errorf("no image stored for %s", rec.ID)
		}
		data, err := imaging.EncodePNG(rec.Image)
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Image: %s\n", out)
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a person from the gallery",
		Args:  cobra.NoArgs,
		RunE:  runDelete,
	}
	cmd.Flags().String("id", "", "Identifier to remove")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)
	id := mustGetString(cmd, "id")

	removed, err := app.Gallery.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrPersonNotFound.WithError(fmt.Errorf("id %q", id))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the people of the gallery in index order",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	records, err := app.Gallery.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "Gallery is empty")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %s\n", "INDEX", "ID", "NAME")
	for _, rec := range records {
		fmt.Fprintf(out, "%-6d %-20s %s\n", rec.Index, rec.ID, rec.Name)
	}
	return nil
}

// reportOutcome turns the AddOrUpdate rejections into user-facing errors.
func reportOutcome(err error) error {
	switch service.OutcomeOf(err) {
	case service.OutcomeAdded:
		return nil
	case service.OutcomeDuplicateID:
		return fmt.Errorf("a person with this id already exists: %w", err)
	case service.OutcomeNoFaceDetected:
		return fmt.Errorf("no face found in the photo: %w", err)
	default:
		return err
	}
}

func readImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
