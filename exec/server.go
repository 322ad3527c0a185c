// Package exec provides a typcheck.Backend that runs a bundled
// LanguageTool server as a child java process and proxies checks to it
// over the languagetool HTTP client.
package exec

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/languagetool"
)

// DefaultStartTimeout bounds how long we wait for the child server to
// start accepting requests.
const DefaultStartTimeout = 60 * time.Second

// Ensure Server implements typcheck.Backend at compile time.
var _ typcheck.Backend = (*Server)(nil)

// Server manages a `java -jar languagetool-server.jar` child process.
// The process is started lazily on the first check and stopped by
// Shutdown. Safe for concurrent use.
type Server struct {
	jarPath      string
	javaPath     string
	startTimeout time.Duration
	clientOpts   []languagetool.Option

	mu      sync.Mutex
	cmd     *exec.Cmd
	client  *languagetool.Client
	pending typcheck.BackendConfig
}

// Option configures a Server.
type Option func(*Server)

// WithJavaPath sets the java executable. Defaults to "java" on PATH.
func WithJavaPath(path string) Option {
	return func(s *Server) {
		s.javaPath = path
	}
}

// WithStartTimeout bounds the readiness wait for the child process.
func WithStartTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.startTimeout = d
	}
}

// WithClientOptions passes options through to the HTTP client used to
// talk to the child server.
func WithClientOptions(opts ...languagetool.Option) Option {
	return func(s *Server) {
		s.clientOpts = opts
	}
}

// NewServer creates a Server for the LanguageTool jar at jarPath.
func NewServer(jarPath string, opts ...Option) *Server {
	s := &Server{
		jarPath:      jarPath,
		javaPath:     "java",
		startTimeout: DefaultStartTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check starts the child server if needed and delegates to it.
func (s *Server) Check(ctx context.Context, lang string, text string) ([]typcheck.Match, error) {
	client, err := s.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}
	return client.Check(ctx, lang, text)
}

// Configure records the configuration and applies it to the child
// server if it is already running.
func (s *Server) Configure(ctx context.Context, cfg typcheck.BackendConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = cfg
	if s.client != nil {
		return s.client.Configure(ctx, cfg)
	}
	return nil
}

// Shutdown stops the child process if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.client = nil
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	if err := cmd.Process.Kill(); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) ensureStarted(ctx context.Context) (*languagetool.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	port, err := freePort()
	if err != nil {
		return nil, typcheck.Errorf(typcheck.EUNAVAILABLE, "exec: no free port: %v", err)
	}

	cmd := exec.Command(s.javaPath,
		"-cp", s.jarPath,
		"org.languagetool.server.HTTPServer",
		"--port", strconv.Itoa(port),
		"--allow-origin", "*",
	)
	if err := cmd.Start(); err != nil {
		return nil, typcheck.Errorf(typcheck.EUNAVAILABLE, "exec: starting %s: %v", s.javaPath, err)
	}

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	if err := waitReady(ctx, baseURL, s.startTimeout); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}

	client := languagetool.NewClient(baseURL, s.clientOpts...)
	if err := client.Configure(ctx, s.pending); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}

	s.cmd = cmd
	s.client = client
	return client, nil
}

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// waitReady polls /v2/languages until the server answers or the
// deadline passes.
func waitReady(ctx context.Context, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: time.Second}

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v2/languages", nil)
		if err != nil {
			return typcheck.Errorf(typcheck.EINTERNAL, "exec: building readiness request: %v", err)
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return typcheck.Errorf(typcheck.EUNAVAILABLE, "exec: server not ready: %v", ctx.Err())
		case <-time.After(250 * time.Millisecond):
		}
	}

	return typcheck.Errorf(typcheck.EUNAVAILABLE, "exec: server not ready after %s", timeout)
}
