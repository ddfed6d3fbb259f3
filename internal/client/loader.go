// Package client implements the dashboard fragment loader: a small state
// machine that fetches the server-rendered fragment, retries while the
// backend wakes up, and drives the loading indicator. The browser twin of
// this machine lives in web/static/js/cycle-loader.js; this package is the
// reference implementation and works for any thin client.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// State is the loader's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateWaiting
	StateRendered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateWaiting:
		return "waiting"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Doer abstracts the HTTP client so tests can script responses.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sink receives the loader's UI effects. Implementations swap fragment
// HTML into the page, toggle the loader overlay, and update the status
// line and progress bar.
type Sink interface {
	Render(html string)
	ShowLoader()
	HideLoader()
	Status(message string)
	Progress(percent int)
	RetryAvailable()
}

// Config tunes a Loader. Zero values pick the production defaults.
type Config struct {
	URL          string
	MaxAttempts  int           // attempts per Start/Retry cycle (default 2)
	RetryDelay   time.Duration // pause between attempts (default 3s)
	LoaderDelay  time.Duration // how long a request may stay pending before the loader shows (default 3s)
	ProgressTick time.Duration // progress bar animation step (default 50ms)
	MessageTick  time.Duration // status message rotation (default 10s)
	HTTP         Doer
	Clock        Clock
}

const (
	defaultMaxAttempts  = 2
	defaultRetryDelay   = 3 * time.Second
	defaultLoaderDelay  = 3 * time.Second
	defaultProgressTick = 50 * time.Millisecond
	defaultMessageTick  = 10 * time.Second

	// The bar creeps toward this while waiting and only reaches 100 on a
	// terminal state.
	progressCeiling = 90
)

var loadingMessages = []string{
	"Loading... please do a little stretch while we get things ready",
	"Loading... brewing bits and bytes",
	"Loading... pulling data from the magic hat",
	"Loading... calculating awesomeness",
}

const (
	wakingMessage = "Failed to reach the server - attempting to wake it up..."
	failedMessage = "We couldn't reach the server after several tries. Please try again."
)

// Loader drives one page load of the dashboard fragment. Every timer it
// starts is owned by the instance and released on any transition out of
// the Fetching and Waiting states; nothing is shared between instances.
type Loader struct {
	cfg  Config
	sink Sink

	mu          sync.Mutex
	state       State
	gen         int // bumped by Retry/Dispose so stale work becomes a no-op
	attempt     int
	progress    int
	messageIdx  int
	loaderShown bool

	loaderTimer   Timer
	retryTimer    Timer
	progressTimer Timer
	messageTimer  Timer
}

// NewLoader creates a Loader in the Idle state.
func NewLoader(cfg Config, sink Sink) *Loader {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.LoaderDelay <= 0 {
		cfg.LoaderDelay = defaultLoaderDelay
	}
	if cfg.ProgressTick <= 0 {
		cfg.ProgressTick = defaultProgressTick
	}
	if cfg.MessageTick <= 0 {
		cfg.MessageTick = defaultMessageTick
	}
	if cfg.HTTP == nil {
		cfg.HTTP = http.DefaultClient
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Loader{cfg: cfg, sink: sink, state: StateIdle}
}

// State returns the loader's current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start begins the fetch cycle. It does nothing unless the loader is Idle.
// The loader indicator only appears if the request is still pending after
// LoaderDelay, so fast responses never flicker it.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return
	}
	gen := l.gen
	l.attempt = 0
	l.progress = 0
	l.loaderShown = false
	l.loaderTimer = l.cfg.Clock.AfterFunc(l.cfg.LoaderDelay, func() { l.showLoader(gen) })
	l.mu.Unlock()

	l.fetch(ctx, gen)
}

// Retry restarts the fetch cycle after a failure, resetting the attempt
// counter. It does nothing unless the loader is Failed.
func (l *Loader) Retry(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateFailed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	l.stopTimersLocked()
	l.attempt = 0
	l.progress = 0
	l.messageIdx = 0
	l.sink.Status(loadingMessages[0])
	l.sink.Progress(0)
	if l.loaderShown {
		l.armProgressLocked(gen)
		l.armMessageLocked(gen)
	} else {
		l.loaderTimer = l.cfg.Clock.AfterFunc(l.cfg.LoaderDelay, func() { l.showLoader(gen) })
	}
	l.mu.Unlock()

	l.fetch(ctx, gen)
}

// Dispose releases all timers and invalidates any in-flight response, for
// when the page (and its container element) goes away. Best-effort: it
// does not abort the network call, but a stale response is never rendered.
func (l *Loader) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.stopTimersLocked()
	l.state = StateIdle
}

func (l *Loader) fetch(ctx context.Context, gen int) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.state = StateFetching
	l.attempt++
	attempt := l.attempt
	l.mu.Unlock()

	html, retryable, err := l.doRequest(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}

	if err == nil {
		l.succeedLocked(html)
		return
	}

	if retryable && attempt < l.cfg.MaxAttempts {
		l.state = StateWaiting
		l.sink.Status(wakingMessage)
		l.retryTimer = l.cfg.Clock.AfterFunc(l.cfg.RetryDelay, func() { l.fetch(ctx, gen) })
		return
	}

	l.failLocked()
}

// doRequest performs one attempt. Network errors and 503 responses are
// retryable (a suspended backend waking up); any other non-200 status is a
// hard failure.
func (l *Loader) doRequest(ctx context.Context) (html string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.URL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := l.cfg.HTTP.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", true, fmt.Errorf("service unavailable")
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}
	return string(body), false, nil
}

func (l *Loader) succeedLocked(html string) {
	l.stopTimersLocked()
	l.state = StateRendered
	l.sink.Progress(100)
	if l.loaderShown {
		l.sink.HideLoader()
	}
	l.sink.Render(html)
	l.sink.Status(loadingMessages[0])
}

func (l *Loader) failLocked() {
	l.stopTimersLocked()
	l.state = StateFailed
	if !l.loaderShown {
		// Surface the loader so the error state has somewhere to live.
		l.loaderShown = true
		l.sink.ShowLoader()
	}
	l.sink.Progress(100)
	l.sink.Status(failedMessage)
	l.sink.RetryAvailable()
}

func (l *Loader) showLoader(gen int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	if l.state != StateFetching && l.state != StateWaiting {
		return
	}
	l.loaderShown = true
	l.progress = 0
	l.sink.ShowLoader()
	l.sink.Status(loadingMessages[l.messageIdx%len(loadingMessages)])
	l.armProgressLocked(gen)
	l.armMessageLocked(gen)
}

func (l *Loader) armProgressLocked(gen int) {
	l.progressTimer = l.cfg.Clock.AfterFunc(l.cfg.ProgressTick, func() { l.tickProgress(gen) })
}

func (l *Loader) tickProgress(gen int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	if l.state != StateFetching && l.state != StateWaiting {
		return
	}
	if l.progress < progressCeiling {
		l.progress++
		l.sink.Progress(l.progress)
	}
	l.armProgressLocked(gen)
}

func (l *Loader) armMessageLocked(gen int) {
	l.messageTimer = l.cfg.Clock.AfterFunc(l.cfg.MessageTick, func() { l.rotateMessage(gen) })
}

func (l *Loader) rotateMessage(gen int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	if l.state != StateFetching && l.state != StateWaiting {
		return
	}
	l.messageIdx++
	l.sink.Status(loadingMessages[l.messageIdx%len(loadingMessages)])
	l.armMessageLocked(gen)
}

func (l *Loader) stopTimersLocked() {
	for _, t := range []*Timer{&l.loaderTimer, &l.retryTimer, &l.progressTimer, &l.messageTimer} {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
	}
}
