package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-capture/internal/config"
	"github.com/kozaktomas/face-capture/internal/database/postgres"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/pose"
)

var statusCmd = &cobra.Command{
	Use:   "status [person-name]",
	Short: "Show dataset progress",
	Long: `Show how many photos each person has in the dataset folder.
With a person name, list that person's files instead. When a database is
configured the capture history is shown as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store := dataset.NewStore(cfg.Capture.DatasetDir, cfg.Capture.MaxImageSize)

	if len(args) == 1 {
		return printPersonStatus(store, cfg, args[0])
	}

	entries, err := os.ReadDir(cfg.Capture.DatasetDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Dataset folder %s does not exist yet\n", cfg.Capture.DatasetDir)
			return nil
		}
		return fmt.Errorf("could not read dataset folder: %w", err)
	}

	fmt.Printf("Dataset folder: %s (quota %d)\n\n", cfg.Capture.DatasetDir, cfg.Capture.Quota)
	people := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		count, err := store.CountPhotos(entry.Name())
		if err != nil {
			fmt.Printf("  %-30s (unreadable: %v)\n", entry.Name(), err)
			continue
		}
		marker := " "
		if count >= cfg.Capture.Quota {
			marker = "*"
		}
		fmt.Printf("%s %-30s %d/%d\n", marker, entry.Name(), count, cfg.Capture.Quota)
		people++
	}
	if people == 0 {
		fmt.Println("No people captured yet")
	}

	if cfg.Database.URL != "" {
		if err := printHistoryStats(cmd, cfg); err != nil {
			fmt.Printf("\nWarning: could not read capture history: %v\n", err)
		}
	}
	return nil
}

func printPersonStatus(store *dataset.Store, cfg *config.Config, name string) error {
	key := pose.PersonKey(name)
	files, err := store.List(key)
	if err != nil {
		return fmt.Errorf("could not list folder for %q: %w", key, err)
	}

	fmt.Printf("%s (%s): %d/%d photo(s)\n", name, store.Folder(key), len(files), cfg.Capture.Quota)
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

func printHistoryStats(cmd *cobra.Command, cfg *config.Config) error {
	if err := postgres.Initialize(&cfg.Database); err != nil {
		return err
	}
	pool := postgres.GetGlobalPool()
	defer pool.Close()

	stats, err := postgres.NewCaptureRepository(pool).Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("\nCapture history (database):\n")
	if len(stats) == 0 {
		fmt.Println("  no captures recorded")
		return nil
	}
	for _, s := range stats {
		fmt.Printf("  %-30s %d capture(s) in %d session(s), last %s\n",
			s.PersonKey, s.Captures, s.Sessions, s.LastSeen.Format("2006-01-02 15:04"))
	}
	return nil
}
