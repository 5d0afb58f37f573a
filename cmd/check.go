package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-capture/internal/config"
	"github.com/kozaktomas/face-capture/internal/detector"
	"github.com/kozaktomas/face-capture/internal/pose"
)

var checkCmd = &cobra.Command{
	Use:   "check <image-file>",
	Short: "Check whether an image would be accepted",
	Long: `Run one image through face detection and the frontal pose check
without saving anything. Useful for tuning the accept threshold and
verifying the landmark service.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Float64("max-offset", 0, "Override the frontal pose accept threshold")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	maxOffset := cfg.Capture.MaxOffset
	if v := mustGetFloat64(cmd, "max-offset"); v > 0 {
		maxOffset = v
	}

	frame, err := os.ReadFile(args[0]) //nolint:gosec // user-provided input file
	if err != nil {
		return fmt.Errorf("could not read image: %w", err)
	}

	faces, err := detector.NewClient(cfg.Landmarks.URL).DetectFaces(cmd.Context(), frame)
	if err != nil {
		return fmt.Errorf("landmark detection failed: %w", err)
	}

	fmt.Printf("Faces detected: %d\n", len(faces))
	if len(faces) == 0 {
		fmt.Println("Verdict: rejected (no face)")
		return nil
	}
	if len(faces) > 1 {
		fmt.Println("Verdict: rejected (multiple faces)")
		return nil
	}

	eval := pose.NewEvaluator(maxOffset)
	decision, err := eval.Evaluate(faces[0])
	if err != nil {
		fmt.Printf("Verdict: rejected (%v)\n", err)
		return nil
	}

	fmt.Printf("Offset ratio: %.4f (max %.2f)\n", decision.OffsetRatio, eval.MaxOffset())
	if decision.Accepted {
		fmt.Println("Verdict: accepted")
	} else {
		fmt.Println("Verdict: rejected (sideways pose)")
	}
	return nil
}
