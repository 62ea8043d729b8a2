package server

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// statusPollInterval controls how often the working tree is polled for
// changes that do not touch .pit (new untracked files, edits).
const statusPollInterval = 2 * time.Second

func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	pitDir := s.repo.PitDir()
	if err := watcher.Add(pitDir); err != nil {
		return err
	}

	// fsnotify does not recurse into subdirectories; ref creation and
	// deletion happen inside refs/heads and refs/tags, so watch those
	// explicitly. logs/ carries the stash stack.
	for _, sub := range []string{"refs/heads", "refs/tags", "logs"} {
		dir := filepath.Join(pitDir, sub)
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			if addErr := watcher.Add(dir); addErr != nil {
				s.logger.Warn("Failed to watch directory", "dir", dir, "err", addErr)
			}
		}
	}

	s.wg.Add(2)
	go s.statusPollLoop()
	go s.watchLoop(watcher)

	s.logger.Info("Watching pit repository for changes", "pitDir", pitDir)
	return nil
}

// statusPollLoop periodically recomputes the summary and broadcasts when it
// changed. This catches working-tree-only changes that never touch .pit and
// are therefore invisible to the watcher.
func (s *Server) statusPollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.broadcastSummary()
		}
	}
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Error("Failed to close watcher", "err", err)
		}
	}()

	var debounceTimer *time.Timer

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			s.logger.Debug("Change detected", "file", filepath.Base(event.Name), "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if s.ctx.Err() != nil {
					return
				}
				s.broadcastSummary()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("Watcher error", "err", err)
		}
	}
}

// shouldIgnoreEvent drops events from temp-file writes and chmod noise.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".tmp-") {
		return true
	}
	return base == "config"
}
