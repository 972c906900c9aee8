package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/space-colonies/internal/config"
	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/session"
	"github.com/vovakirdan/space-colonies/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.colony/host_key.
	HostKeyPath string

	// DBPath is the path to the save database shared by every player.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	Catalog economy.Catalog
	Tuning  config.Tuning
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.colony/colony.db",
		IdleTimeout: 30 * time.Minute,
		Tuning:      config.DefaultTuning(),
	}
}

// SSHServer serves one colony per SSH user.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	mu     sync.Mutex
	active map[string]*session.Session // slot -> session, nil while loading
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "colony-ssh",
	})

	// A hosted colony cannot run without its saves.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open save database: %w", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
		active: make(map[string]*session.Session),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.HomeDir()
		if dir == "" {
			store.Close()
			return nil, errors.New("cannot get home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		store.Close()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging, then the slot guard, then the program.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.slotMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// slotName maps an SSH user to its save slot.
func slotName(user string) string {
	if user == "" {
		user = "anonymous"
	}
	return "ssh:" + user
}

// teaHandler creates a session and a Bubble Tea program for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "A terminal is required: connect with ssh -t.")
		return nil, nil
	}

	slot := slotName(sshSession.User())
	sess, err := session.New(session.Options{
		Slot:    slot,
		Catalog: s.config.Catalog,
		Tuning:  s.config.Tuning,
		Store:   s.store,
		History: s.store,
		Logger:  s.logger.With("user", sshSession.User()),
	})
	if err == nil {
		err = sess.Init()
	}
	if errors.Is(err, session.ErrForeignSave) {
		s.logger.Warn("save from another catalog", "slot", slot, "error", err)
		wish.Fatalln(sshSession, "Your colony was started on another server catalog and cannot be opened here.")
		return nil, nil
	}
	if err != nil {
		s.logger.Error("cannot start colony", "slot", slot, "error", err)
		wish.Fatalln(sshSession, "Cannot load your colony, try again later.")
		return nil, nil
	}

	s.mu.Lock()
	s.active[slot] = sess
	s.mu.Unlock()

	return NewModel(sess), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	}
}

// slotMiddleware allows one connection per slot and performs the final
// sync once the program has exited, including on disconnect.
func (s *SSHServer) slotMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		slot := slotName(sshSession.User())

		s.mu.Lock()
		if _, busy := s.active[slot]; busy {
			s.mu.Unlock()
			s.logger.Warn("slot already in use", "slot", slot, "remote", sshSession.RemoteAddr().String())
			wish.Fatalln(sshSession, "Your colony is already open in another session.")
			return
		}
		s.active[slot] = nil
		s.mu.Unlock()

		defer s.release(slot)
		next(sshSession)
	}
}

func (s *SSHServer) release(slot string) {
	s.mu.Lock()
	sess := s.active[slot]
	delete(s.active, slot)
	s.mu.Unlock()

	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		s.logger.Error("final sync failed", "slot", slot, "error", err)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "catalog", s.config.Catalog.Name)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Connections still open after the
// timeout lose progress since their last autosave.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)

	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
