package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/logger"
)

const janitorInterval = time.Minute

// getState returns the current server state
func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// startBackgroundServices starts the limiter janitor and, when
// catalog.watch is set, the config watcher
func (s *Server) startBackgroundServices() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLimiterJanitor(janitorInterval)
	}()

	if s.Config().Catalog.Watch {
		if err := s.setupConfigWatcher(); err != nil {
			s.logger.Warnw("Config watching disabled", logger.FieldError, err)
		}
	}
}

// Start serves HTTP on port, or the nearest free port, until Stop is called
func (s *Server) Start(port int) error {
	actualPort, err := findAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort,
		)
	}

	s.startBackgroundServices()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", actualPort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	s.logger.Infow("Server ready",
		"url", fmt.Sprintf("http://localhost:%d", actualPort),
		logger.FieldPort, actualPort,
		"lsp", fmt.Sprintf("ws://localhost:%d/lsp", actualPort),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "HTTP server on port %d failed", actualPort)
	}
	return nil
}

// Stop gracefully shuts down the server and cleans up resources
func (s *Server) Stop() error {
	if s.getState() == ServerStateStopped {
		return nil
	}
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	var errs []error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, "HTTP shutdown"))
		}
	}

	if s.configWatcher != nil {
		if err := s.configWatcher.Stop(); err != nil {
			errs = append(errs, errors.Wrap(err, "config watcher"))
		}
	}

	s.cancel()
	s.wg.Wait()

	s.setState(ServerStateStopped)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// setupConfigWatcher reloads configuration when a config file or catalog
// extension file changes and applies it to the running server
func (s *Server) setupConfigWatcher() error {
	files := am.LoadedFiles()
	load := func() (*am.Config, error) {
		am.Reset()
		return am.Load()
	}
	if s.configFile != "" {
		files = []string{s.configFile}
		load = func() (*am.Config, error) { return am.LoadFromFile(s.configFile) }
	}
	for _, ext := range s.Config().Catalog.Extensions {
		if _, err := os.Stat(ext); err == nil {
			files = append(files, ext)
		}
	}
	if len(files) == 0 {
		return errors.New("no config or extension files to watch")
	}

	watcher, err := am.NewConfigWatcher(files...)
	if err != nil {
		return err
	}
	watcher.SetLoader(load)
	watcher.OnReload(s.ApplyConfig)
	watcher.Start()

	s.configWatcher = watcher
	am.SetGlobalWatcher(watcher)

	s.logger.Infow("Watching configuration", logger.FieldCount, len(files))
	return nil
}
