package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-capture/internal/config"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/detector"
	"github.com/kozaktomas/face-capture/internal/photoprism"
	"github.com/kozaktomas/face-capture/internal/pose"
	"github.com/kozaktomas/face-capture/internal/session"
)

var captureCmd = &cobra.Command{
	Use:   "capture <name> <image-file> [image-file...]",
	Short: "Capture photos for a person from image files",
	Long: `Run image files through the capture workflow as if they were webcam
frames. Each file is checked with the landmark service; frontal poses are
saved to the person's dataset folder until the quota is reached.

Example:
  face-capture capture "Jane Doe" frames/*.jpg
  face-capture capture --mirror "Jane Doe" frames/*.jpg`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Float64("max-offset", 0, "Override the frontal pose accept threshold")
	captureCmd.Flags().Bool("mirror", false, "Mirror accepted photos to PhotoPrism")
}

// captureEvaluator builds the pose evaluator for the capture loop. A positive
// --max-offset flag value overrides the configured threshold.
func captureEvaluator(configured, override float64) *pose.Evaluator {
	if override > 0 {
		return pose.NewEvaluator(override)
	}
	return pose.NewEvaluator(configured)
}

func runCapture(cmd *cobra.Command, args []string) error {
	name := args[0]
	files := args[1:]

	cfg := config.Load()
	eval := captureEvaluator(cfg.Capture.MaxOffset, mustGetFloat64(cmd, "max-offset"))
	store := dataset.NewStore(cfg.Capture.DatasetDir, cfg.Capture.MaxImageSize)
	faces := detector.NewClient(cfg.Landmarks.URL)

	var mirror session.Mirror
	if mustGetBool(cmd, "mirror") {
		if !cfg.PhotoPrism.Enabled() {
			return errors.New("--mirror requires PHOTOPRISM_URL to be configured")
		}
		pp, err := photoprism.NewPhotoPrism(cmd.Context(), cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
		if err != nil {
			return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
		}
		mirror = photoprism.NewMirror(pp)
	}

	sess := session.New(faces, store, eval, cfg.Capture.Quota, mirror, nil)

	status, err := sess.Identify(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("could not start session: %w", err)
	}
	fmt.Printf("Capturing for %s into %s (quota %d)\n\n", status.Name, status.Folder, status.Quota)

	bar := progressbar.NewOptions(status.Quota,
		progressbar.OptionSetDescription("Accepted"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var rejected []string
	for _, file := range files {
		frame, err := os.ReadFile(file) //nolint:gosec // user-provided input files
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("%s: %v", filepath.Base(file), err))
			continue
		}

		result, err := sess.Capture(cmd.Context(), frame)
		if err != nil {
			if errors.Is(err, session.ErrQuotaReached) {
				break
			}
			rejected = append(rejected, fmt.Sprintf("%s: %v", filepath.Base(file), err))
			continue
		}

		bar.Add(1)
		if result.MirrorError != "" {
			rejected = append(rejected, fmt.Sprintf("%s: mirror failed: %s", result.Photo.Filename, result.MirrorError))
		}
		if result.State == session.StateComplete {
			break
		}
	}
	fmt.Println()

	for _, msg := range rejected {
		fmt.Printf("Skipped: %s\n", msg)
	}

	final := sess.Status()
	fmt.Printf("\nDone! %d/%d photo(s) saved for %s\n", final.Count, final.Quota, final.Name)
	if final.State != session.StateComplete {
		fmt.Println("Quota not reached, run again with more frames")
	}
	return nil
}
