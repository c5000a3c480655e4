// Package web provides an HTTP API over a ledger book.
//
// The server exposes accounts, running balances, recurring template schedules and
// realization over JSON, and pushes a reload event over Server-Sent Events whenever
// the book changes on disk.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errfmt "github.com/uFincs/uFincs-sub004/errors"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/logger"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool

	mu           sync.RWMutex
	book         *loader.Book
	config       *ledger.Config
	problems     []error  // Validation errors of the loaded book
	rootFile     string   // Absolute path of the root book file
	includeFiles []string // Absolute paths of included files

	// inputFile is the file path passed to New(), used only for initial loading.
	// After loading, rootFile contains the resolved absolute path.
	inputFile string

	// writeMu serializes requests that rewrite the book on disk.
	writeMu sync.Mutex

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, bookFile string) *Server {
	return NewWithVersion(port, bookFile, "", "")
}

func NewWithVersion(port int, bookFile, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		inputFile:  bookFile,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the book and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.inputFile == "" {
		timer.End()
		return fmt.Errorf("book file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_book %s", filepath.Base(s.inputFile)))
	if err := s.reloadLedger(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load book: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	router, err := s.setupRouter()
	setupTimer.End()
	timer.End()

	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.FromContext(ctx).Info().Str("addr", srv.Addr).Str("book", s.inputFile).Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleGetStatus)
		r.Get("/accounts", s.handleGetAccounts)
		r.Get("/accounts/{id}/balances", s.handleGetBalances)
		r.Get("/summary", s.handleGetSummary)
		r.Get("/templates", s.handleGetTemplates)
		r.Get("/templates/{id}/occurrences", s.handleGetOccurrences)
		r.Post("/realize", s.requireWritable(s.handlePostRealize))
		r.Get("/events", s.handleSSE)
	})

	return r, nil
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "Server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// reloadLedger loads or reloads the book from disk. A book that parses but fails
// validation is kept; its problems are reported by the status endpoint.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadLedger(ctx context.Context) error {
	result, err := loader.New(loader.WithFollowIncludes()).Load(ctx, s.inputFile)
	if err != nil {
		return err
	}

	var problems []error
	if err := loader.Validate(result.Book); err != nil {
		problems = errfmt.Flatten(err)
	}

	s.mu.Lock()
	s.book = result.Book
	s.config = result.Config
	s.problems = problems
	s.rootFile = result.Root
	s.includeFiles = result.Includes
	s.mu.Unlock()

	return nil
}

// snapshot returns the current book and config. Handlers must treat the book as
// read-only; reloads replace it rather than mutate it.
func (s *Server) snapshot() (*loader.Book, *ledger.Config) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book, s.config
}

// startWatcher starts a file watcher for the root file and all includes.
// It reloads the book and broadcasts SSE events when files change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	filesToWatch := append([]string{s.rootFile}, s.includeFiles...)
	s.mu.RUnlock()

	log := logger.FromContext(ctx)
	for _, file := range filesToWatch {
		if err := watcher.Add(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to watch file")
		}
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove/Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.FromContext(ctx).Error().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the book and updates the watch list.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	log := logger.FromContext(ctx)

	s.mu.RLock()
	oldIncludes := make(map[string]bool)
	for _, f := range s.includeFiles {
		oldIncludes[f] = true
	}
	s.mu.RUnlock()

	if err := s.reloadLedger(ctx); err != nil {
		log.Error().Err(err).Msg("failed to reload book")
		return
	}

	s.mu.RLock()
	newIncludes := make(map[string]bool)
	for _, f := range s.includeFiles {
		newIncludes[f] = true
	}
	newRoot := s.rootFile
	s.mu.RUnlock()

	for file := range oldIncludes {
		if !newIncludes[file] {
			_ = watcher.Remove(file)
		}
	}

	// Re-add to catch re-created files
	for file := range newIncludes {
		if err := watcher.Add(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to watch file")
		}
	}
	if err := watcher.Add(newRoot); err != nil {
		log.Warn().Err(err).Str("file", newRoot).Msg("failed to watch root")
	}

	log.Debug().Str("file", newRoot).Msg("book reloaded")
	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
