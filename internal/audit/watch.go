package audit

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch runs fn once, then re-runs it whenever a file under dir changes.
// Change bursts (an export being unpacked writes many files) are debounced
// so the check runs once per burst. Watch blocks until ctx is canceled.
func Watch(ctx context.Context, dir string, debounce time.Duration, log zerolog.Logger, fn func() error) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	if err := fn(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("watching export for changes")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			pending = false
			log.Info().Msg("export changed, re-running check")
			if err := fn(); err != nil {
				log.Error().Err(err).Msg("check failed")
			}
		}
	}
}
