package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/pkg/profiling"
)

// DefaultReloadInterval is used when the configured interval is missing or
// not positive.
const DefaultReloadInterval = 10 * time.Minute

// Periodic task states. The store only ever moves forward:
// not started -> running -> stopped.
const (
	taskNotStarted uint32 = iota
	taskRunning
	taskStopped
)

// Store owns the active policy index and keeps it reloadable. Lookups are
// served from the last successfully applied rules document; a failed reload
// leaves that snapshot untouched, so the store stays queryable on
// last-known-good state indefinitely.
type Store struct {
	source   RulesSource
	interval time.Duration
	logger   *logrus.Entry

	// mu guards the applied state below. Index, policies, monitored set
	// and raw snapshot only ever change together, under the write lock.
	mu          sync.RWMutex
	index       *Index
	policies    []*Policy
	monitored   []string
	lastRaw     map[string]interface{}
	lastApplied time.Time
	lastErr     error
	callback    func(error)
	subscribers map[chan []string]struct{}

	// reloadMu serializes whole reload attempts so parse and build run
	// outside the read/write lock without interleaving.
	reloadMu sync.Mutex

	rebuilds uint64
	state    uint32

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a store backed by source. No I/O happens until Reload or
// BeginPeriodicTask is called.
func New(source RulesSource, interval time.Duration) *Store {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		source:      source,
		interval:    interval,
		logger:      logging.NewLogger("watch"),
		subscribers: make(map[chan []string]struct{}),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// FindPolicyForPath returns the policy governing path, or (nil, false) when
// no rule covers it. The index reference is copied under a brief read lock
// and traversed outside it.
func (s *Store) FindPolicyForPath(path string) (*Policy, bool) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	return index.Find(path)
}

// ReloadConfig applies a raw rules document. A document equal to the
// last-applied one is skipped without rebuilding. On parse or build failure
// the current state is untouched and the error returned.
func (s *Store) ReloadConfig(raw map[string]interface{}) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.RLock()
	last := s.lastRaw
	s.mu.RUnlock()

	if last != nil && ConfigsEqual(raw, last) {
		s.logger.Debug("Rules unchanged, keeping current index")
		return nil
	}

	parseTimer := profiling.Start("rules.parse")
	policies, err := ParseConfig(raw)
	parseTimer.Stop()
	if err != nil {
		return err
	}

	buildTimer := profiling.Start("rules.build")
	index, monitored, err := BuildIndex(policies)
	buildTimer.Stop()
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := !equalStrings(monitored, s.monitored)
	s.index = index
	s.policies = policies
	s.monitored = monitored
	s.lastRaw = raw
	s.lastApplied = time.Now()
	atomic.AddUint64(&s.rebuilds, 1)
	if changed {
		s.broadcastLocked(monitored)
	}
	s.mu.Unlock()

	version, _ := raw["version"].(string)
	s.logger.WithFields(logrus.Fields{
		"version":   version,
		"rules":     index.Len(),
		"monitored": len(monitored),
	}).Info("Applied watch rules")
	return nil
}

// Reload loads the rules document from the configured source and applies
// it. The attempt's outcome is recorded for status reporting.
func (s *Store) Reload() error {
	err := s.reloadFromSource()

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	return err
}

func (s *Store) reloadFromSource() error {
	if s.source == nil {
		return errors.New(errors.ErrCodeConfigLoadFailed, "no rules source configured")
	}
	raw, err := s.source.Load()
	if err != nil {
		return err
	}
	return s.ReloadConfig(raw)
}

// SetReloadCallback registers fn to run after every periodic reload attempt
// with that attempt's result, nil on success. Set it before
// BeginPeriodicTask.
func (s *Store) SetReloadCallback(fn func(error)) {
	s.mu.Lock()
	s.callback = fn
	s.mu.Unlock()
}

// BeginPeriodicTask starts the reload loop: one immediate reload, then one
// per interval until Close. Calling it twice, or after Close, does nothing.
func (s *Store) BeginPeriodicTask() {
	if !atomic.CompareAndSwapUint32(&s.state, taskNotStarted, taskRunning) {
		return
	}
	go s.run()
}

func (s *Store) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.attempt()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.attempt()
		}
	}
}

func (s *Store) attempt() {
	err := s.Reload()
	if err != nil {
		s.logger.WithError(err).Warn("Rules reload failed, keeping last good rules")
	}

	s.mu.RLock()
	cb := s.callback
	s.mu.RUnlock()
	if cb != nil {
		cb(err)
	}
}

// Close stops the periodic task and waits for it to exit. The store stays
// queryable afterwards; BeginPeriodicTask cannot restart it.
func (s *Store) Close() error {
	if atomic.CompareAndSwapUint32(&s.state, taskRunning, taskStopped) {
		s.cancel()
		<-s.done
		return nil
	}
	if atomic.CompareAndSwapUint32(&s.state, taskNotStarted, taskStopped) {
		s.cancel()
	}
	return nil
}

// Subscribe registers for monitored-set updates, delivered after every
// reload that changed the set. The channel is buffered; updates to a
// subscriber that falls behind are dropped, not queued.
func (s *Store) Subscribe() chan []string {
	ch := make(chan []string, 16)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch chan []string) {
	s.mu.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *Store) broadcastLocked(monitored []string) {
	update := make([]string, len(monitored))
	copy(update, monitored)
	for ch := range s.subscribers {
		// Non-blocking send so a slow subscriber cannot stall a reload
		select {
		case ch <- update:
		default:
		}
	}
}

// MonitoredPaths returns a copy of the current monitored path set.
func (s *Store) MonitoredPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.monitored))
	copy(out, s.monitored)
	return out
}

// Policies returns the rules behind the active index, in parse order.
// Policies are immutable, so sharing the pointers is safe.
func (s *Store) Policies() []*Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Policy, len(s.policies))
	copy(out, s.policies)
	return out
}

// RuleCount returns the number of rules in the active index.
func (s *Store) RuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Rebuilds reports how many reloads actually rebuilt the index. No-op
// reloads of an unchanged document do not move it.
func (s *Store) Rebuilds() uint64 {
	return atomic.LoadUint64(&s.rebuilds)
}

// LastReload returns when rules were last successfully applied, and the
// zero time if they never were.
func (s *Store) LastReload() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastApplied
}

// LastError returns the outcome of the most recent source-driven reload.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Source returns the configured rules source.
func (s *Store) Source() RulesSource {
	return s.source
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
