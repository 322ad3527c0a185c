package check

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/typcheck"
)

// ParseRuleID marks a document that could not be loaded or parsed.
const ParseRuleID = "PARSE_ERROR"

// Result is one completed check delivered to the session's notify
// callback.
type Result struct {
	// Doc is the watched path the check was triggered for.
	Doc string

	// Diagnostics for the whole document tree. On a backend outage these
	// are the diagnostics from the last successful check.
	Diagnostics []typcheck.Diagnostic

	// Err is set when the check could not run, e.g. EUNAVAILABLE.
	Err error
}

// Session coordinates checks for a set of watched documents. Edits are
// debounced so a burst of changes results in one check of the final
// content; a change arriving mid-check queues exactly one follow-up.
type Session struct {
	checker *Checker
	notify  func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	cfg    typcheck.Config
	docs   map[string]*watched
	closed bool
}

type watched struct {
	timer    *time.Timer
	checking bool
	dirty    bool
	last     []typcheck.Diagnostic
}

// NewSession creates a Session that reports results through notify.
// notify is called from internal goroutines, never concurrently for the
// same document.
func NewSession(checker *Checker, cfg typcheck.Config, notify func(Result)) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		checker: checker,
		notify:  notify,
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		docs:    make(map[string]*watched),
	}, nil
}

// Watch registers path for change-triggered checks.
func (s *Session) Watch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.docs[path]; !ok {
		s.docs[path] = &watched{}
	}
}

// Unwatch discards the document's state. A check already in flight is
// not interrupted but its result is dropped.
func (s *Session) Unwatch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.docs[path]
	if !ok {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	delete(s.docs, path)
}

// NotifyChange records an edit to path and (re)starts its debounce
// timer. With a zero debounce only explicit CheckNow calls run checks.
func (s *Session) NotifyChange(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.docs[path]
	if !ok || s.closed {
		return
	}
	debounce := time.Duration(s.cfg.Debounce)
	if debounce == 0 {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.triggerLocked(path)
	})
}

// CheckNow triggers an immediate check of path, bypassing the debounce.
func (s *Session) CheckNow(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.docs[path]; !ok {
		s.docs[path] = &watched{}
	}
	s.triggerLocked(path)
}

// triggerLocked starts a check goroutine unless one is already running,
// in which case the document is marked dirty and rechecked afterwards.
func (s *Session) triggerLocked(path string) {
	w, ok := s.docs[path]
	if !ok || s.closed {
		return
	}
	if w.checking {
		w.dirty = true
		return
	}
	w.checking = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(path, w)
	}()
}

func (s *Session) run(path string, w *watched) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	target := path
	if cfg.Main != "" {
		target = cfg.Main
	}

	diagnostics, err := s.checker.Check(s.ctx, target, cfg)

	s.mu.Lock()
	// Pointer identity: Unwatch deletes the state and a later Watch
	// creates a fresh one, so a stale run never matches.
	if s.docs[path] != w || s.closed {
		s.mu.Unlock()
		return
	}
	w.checking = false

	result := Result{Doc: path}
	switch {
	case err == nil:
		w.last = diagnostics
		result.Diagnostics = diagnostics
	case typcheck.ErrorCode(err) == typcheck.EPARSE:
		// Broken markup replaces all diagnostics with one marker.
		w.last = []typcheck.Diagnostic{{
			Doc:      target,
			RuleID:   ParseRuleID,
			Message:  typcheck.ErrorMessage(err),
			Severity: typcheck.SeverityError,
		}}
		result.Diagnostics = w.last
	default:
		// Backend trouble: keep the last good diagnostics on screen.
		result.Diagnostics = w.last
		result.Err = err
	}

	// dirty is only ever set by an already-expired debounce timer or an
	// explicit CheckNow, so the follow-up starts immediately instead of
	// re-arming the timer. Coalescing is unaffected: however many
	// changes arrived mid-check, exactly one follow-up runs.
	recheck := w.dirty
	w.dirty = false
	if recheck {
		s.triggerLocked(path)
	}
	s.mu.Unlock()

	s.notify(result)
}

// UpdateConfig validates and applies a new configuration and pushes the
// backend-relevant part to the backend. An invalid config is rejected
// and the previous one stays active.
func (s *Session) UpdateConfig(ctx context.Context, cfg typcheck.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.checker.Backend.Configure(ctx, cfg.BackendConfig()); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Close stops all timers, cancels in-flight checks, and waits for their
// goroutines. No notifications are delivered after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, w := range s.docs {
		if w.timer != nil {
			w.timer.Stop()
		}
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
