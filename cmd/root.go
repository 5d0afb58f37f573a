package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-capture",
	Short: "A tool for capturing frontal face photos per person",
	Long: `Face Capture collects training photos for face recognition datasets.
It checks every frame with a facial landmark service, keeps only frontal
poses and stores up to a fixed number of photos per person in a local
dataset folder, optionally mirrored to a PhotoPrism library.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
