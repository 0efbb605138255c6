package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve overrides whenever they change",
		Long: `Resolve once, then watch the override document, fact table and template
directory and re-render the .config output on every change.`,
		Example: `  kcfg watch --overrides config.yaml --facts facts.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newRunLogger()

			run := func() {
				col, err := runResolve(logger, flags)
				if err != nil {
					logger.WithError(err).Error("Resolve failed")
					return
				}
				fmt.Print(col.Render())
			}
			run()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			watchPaths := []string{filepath.Dir(flags.overrides)}
			if flags.facts != "" {
				watchPaths = append(watchPaths, filepath.Dir(flags.facts))
			}
			if info, err := os.Stat(flags.templateDir); err == nil && info.IsDir() {
				watchPaths = append(watchPaths, flags.templateDir)
			}
			for _, path := range watchPaths {
				if err := watcher.Add(path); err != nil {
					logger.WithError(err).Warnf("Failed to watch %s", path)
				}
			}
			logger.Infof("Watching %d paths", len(watchPaths))

			// Debounce re-resolves: editors fire several events per save.
			var reloadTimer *time.Timer
			reloadDelay := 500 * time.Millisecond

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					if !strings.HasSuffix(event.Name, ".yaml") {
						continue
					}
					logger.Debugf("%s changed", event.Name)
					if reloadTimer != nil {
						reloadTimer.Stop()
					}
					reloadTimer = time.AfterFunc(reloadDelay, run)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.WithError(err).Warn("Watch error")
				}
			}
		},
	}

	flags.register(cmd)
	return cmd
}
