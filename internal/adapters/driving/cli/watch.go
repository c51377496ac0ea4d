package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/adapters/driven/textsource/file"
	"github.com/custodia-labs/clausewise/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a folder of agreements ingested",
	Long: `Watch a directory and ingest agreements as they are saved.

A changed file replaces its previous document. A removed file deletes its
document. Sessions about replaced or removed documents are kept.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchSettle   time.Duration
	watchExisting bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", file.DefaultSettle, "Quiet period before a changed file is ingested")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Ingest supported files already in the directory first")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil || documentService == nil {
		return notConfigured("ingest")
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	watcher, err := file.NewWatcher(dir, watchSettle)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	owner := currentOwner()

	if watchExisting {
		paths, err := supportedFiles(dir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			reingest(ctx, cmd, owner, path)
		}
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	for ev := range watcher.Watch(ctx) {
		logger.Debug("watch: %s %s", ev.Op, ev.Path)
		switch ev.Op {
		case file.OpWritten:
			reingest(ctx, cmd, owner, ev.Path)
		case file.OpRemoved:
			if n := forget(ctx, owner, ev.Path); n > 0 {
				cmd.Printf("Removed %s\n", filepath.Base(ev.Path))
			}
		}
	}
	return nil
}

// reingest replaces any document previously ingested from path.
// Failures are reported and the watch continues.
func reingest(ctx context.Context, cmd *cobra.Command, owner, path string) {
	forget(ctx, owner, path)

	result, err := ingestService.Ingest(ctx, path, owner)
	if err != nil {
		cmd.PrintErrf("Failed to ingest %s: %v\n", filepath.Base(path), err)
		return
	}
	cmd.Printf("Ingested %s (%s, %d chunks)\n", result.Title, result.DocumentID, result.ChunkCount)
}

// forget deletes the owner's documents whose URI is path.
func forget(ctx context.Context, owner, path string) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	docs, err := documentService.List(ctx, owner)
	if err != nil {
		logger.Warn("watch: listing documents: %v", err)
		return 0
	}

	removed := 0
	for i := range docs {
		if file.ResolvePath(docs[i].URI) != abs {
			continue
		}
		if err := documentService.Delete(ctx, owner, docs[i].ID); err != nil {
			logger.Warn("watch: deleting %s: %v", docs[i].ID, err)
			continue
		}
		removed++
	}
	return removed
}

func supportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !file.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
