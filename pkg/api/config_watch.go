package api

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/sarpt/hifi-web-api/internal/config"
)

// handleConfigFileEvent reloads catalog credentials after the config file is
// rewritten, so that refreshed tokens take effect without a daemon restart.
func (s *Server) handleConfigFileEvent(event fsnotify.Event) error {
	if !shouldReloadConfig(event.Op) {
		return nil
	}

	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}

	s.outLog.Printf("config file '%s' changed - reapplying catalog credentials\n", event.Name)
	s.catalogClient.SetCredentials(cfg.Catalog.AppID, cfg.Catalog.UserToken)

	return nil
}

func (s *Server) watchForConfigChanges(ctx context.Context) {
	if s.fsWatcher == nil {
		return
	}

	go func() {
		defer s.fsWatcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.fsWatcher.Events:
				if !ok {
					return
				}

				if err := s.handleConfigFileEvent(event); err != nil {
					s.errLog.Printf("could not handle event '%s' due to an error: %s\n", event, err)
				}
			case err, ok := <-s.fsWatcher.Errors:
				if !ok {
					return
				}

				s.outLog.Printf("config watcher returned an error: %s\n", err)
			}
		}
	}()
}

// shouldReloadConfig reports whether the operation leaves new content at the
// watched path. Editors using atomic renames produce Create instead of Write.
func shouldReloadConfig(op fsnotify.Op) bool {
	return op&(fsnotify.Write|fsnotify.Create) != 0
}
