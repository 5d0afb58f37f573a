package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-capture/internal/config"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/photoprism"
	"github.com/kozaktomas/face-capture/internal/pose"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror <person-name>",
	Short: "Upload a person's photos to PhotoPrism",
	Long: `Upload every photo in a person's dataset folder to PhotoPrism and
file them under an album named after the person key. Photos already
captured with mirroring enabled do not need this; it exists to backfill
datasets captured offline.

Example:
  face-capture mirror "Jane Doe"`,
	Args: cobra.ExactArgs(1),
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)

	mirrorCmd.Flags().Int("concurrency", 8, "Concurrent processing requests")
}

// baseName strips the directory and extension so local filenames can be
// matched against the names PhotoPrism indexed them under.
func baseName(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if !cfg.PhotoPrism.Enabled() {
		return errors.New("PHOTOPRISM_URL environment variable is required")
	}

	key := pose.PersonKey(args[0])
	store := dataset.NewStore(cfg.Capture.DatasetDir, cfg.Capture.MaxImageSize)

	files, err := store.List(key)
	if err != nil {
		return fmt.Errorf("could not list folder for %q: %w", key, err)
	}
	if len(files) == 0 {
		fmt.Printf("No photos found for %s\n", key)
		return nil
	}

	fmt.Printf("Found %d photo(s) for %s\n", len(files), key)

	pp, err := photoprism.NewPhotoPrism(cmd.Context(), cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
	if err != nil {
		return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
	}
	defer pp.Logout(cmd.Context())

	album, err := pp.FindOrCreateAlbum(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("could not resolve album: %w", err)
	}

	remote, err := pp.GetAlbumPhotos(cmd.Context(), album.UID, 1000, 0)
	if err != nil {
		return fmt.Errorf("could not list album photos: %w", err)
	}
	mirrored := make(map[string]bool, len(remote))
	for _, photo := range remote {
		if photo.OriginalName != "" {
			mirrored[baseName(photo.OriginalName)] = true
		}
		if photo.FileName != "" {
			mirrored[baseName(photo.FileName)] = true
		}
	}

	var pending []string
	for _, file := range files {
		if mirrored[baseName(file)] {
			continue
		}
		pending = append(pending, file)
	}
	if skipped := len(files) - len(pending); skipped > 0 {
		fmt.Printf("Skipping %d photo(s) already in the album\n", skipped)
	}
	if len(pending) == 0 {
		fmt.Printf("Album '%s' is up to date, nothing to upload\n", album.Title)
		return nil
	}

	fmt.Printf("Uploading to album: %s\n\n", album.Title)

	uploadBar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	folder := store.Folder(key)
	var uploadTokens []string
	var uploadErrors []string
	for _, file := range pending {
		token, err := pp.UploadFile(cmd.Context(), filepath.Join(folder, file))
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", file, err))
			uploadBar.Add(1)
			continue
		}
		uploadTokens = append(uploadTokens, token)
		uploadBar.Add(1)
	}
	fmt.Println()

	for _, errMsg := range uploadErrors {
		fmt.Printf("Failed: %s\n", errMsg)
	}

	if len(uploadTokens) == 0 {
		return fmt.Errorf("no files were uploaded successfully")
	}

	fmt.Printf("\nProcessing %d upload(s)...\n", len(uploadTokens))
	processBar := progressbar.NewOptions(len(uploadTokens),
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var (
		processErrors []string
		errorsMu      sync.Mutex
		wg            sync.WaitGroup
		sem           = make(chan struct{}, mustGetInt(cmd, "concurrency"))
	)

	for _, token := range uploadTokens {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := pp.ProcessUpload(cmd.Context(), t, []string{album.UID}); err != nil {
				errorsMu.Lock()
				processErrors = append(processErrors, fmt.Sprintf("upload %s: %v", t, err))
				errorsMu.Unlock()
			}
			processBar.Add(1)
		}(token)
	}
	wg.Wait()
	fmt.Println()

	for _, errMsg := range processErrors {
		fmt.Printf("Warning: failed to process %s\n", errMsg)
	}

	fmt.Printf("\nDone! Uploaded %d file(s) to album '%s'\n", len(uploadTokens), album.Title)
	return nil
}
