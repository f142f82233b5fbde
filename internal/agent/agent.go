// Package agent hosts the warden agent: the watch store, its reload
// triggers and the monitored-set publication layer behind the socket API.
package agent

import (
	"context"
	"os"
	"time"

	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/config"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/watch"
)

// Agent owns the watch store and its reload triggers for one wardend
// process.
type Agent struct {
	cfg        *config.Config
	configFile string
	store      *watch.Store
	watcher    *watch.Watcher
	excludes   *patternmatcher.PatternMatcher
	logger     *logrus.Entry
	interval   time.Duration
	startedAt  time.Time
}

// New builds an agent from the loaded configuration. The watch section must
// name a rules source: either rules_path or an inline rules mapping.
func New(cfg *config.Config, configFile string) (*Agent, error) {
	logger := logging.NewLogger("agent")

	source, err := buildSource(cfg.Watch)
	if err != nil {
		return nil, err
	}

	interval := cfg.Watch.Interval()
	if interval < config.MinReloadInterval {
		logger.WithFields(logrus.Fields{
			"configured": interval.String(),
			"minimum":    config.MinReloadInterval.String(),
		}).Warn("Reload interval below minimum, clamping")
		interval = config.MinReloadInterval
	}

	var excludes *patternmatcher.PatternMatcher
	if len(cfg.Watch.ExcludePaths) > 0 {
		excludes, err = patternmatcher.New(cfg.Watch.ExcludePaths)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid watch.exclude_paths pattern")
		}
	}

	return &Agent{
		cfg:        cfg,
		configFile: configFile,
		store:      watch.New(source, interval),
		excludes:   excludes,
		logger:     logger,
		interval:   interval,
		startedAt:  time.Now(),
	}, nil
}

func buildSource(wc config.WatchConfig) (watch.RulesSource, error) {
	if wc.RulesPath != "" && wc.Rules != nil {
		return nil, errors.ConfigInvalid("watch.rules_path and watch.rules are mutually exclusive")
	}
	if wc.RulesPath != "" {
		return watch.NewFileSource(wc.RulesPath)
	}
	if wc.Rules != nil {
		return watch.NewStaticSource(wc.Rules), nil
	}
	return nil, errors.ConfigInvalid("watch section needs rules_path or inline rules")
}

// Start launches the periodic reload task and, for file-backed rules with
// watching enabled, the fsnotify trigger. It does not block.
func (a *Agent) Start(ctx context.Context) error {
	a.store.BeginPeriodicTask()

	fileSource, ok := a.store.Source().(*watch.FileSource)
	if !ok || !a.cfg.Watch.WatchEnabled() {
		return nil
	}

	w, err := watch.NewWatcher(a.store, fileSource.Locator(), a.cfg.Watch.Debounce())
	if err != nil {
		// The periodic schedule still reloads; losing the trigger is not
		// fatal.
		a.logger.WithError(err).Warn("File watching unavailable, relying on periodic reloads")
		return nil
	}
	a.watcher = w
	go w.Start(ctx)

	a.logger.WithFields(logrus.Fields{
		"rules":    fileSource.Locator(),
		"debounce": a.cfg.Watch.Debounce().String(),
	}).Info("Watching rules file")
	return nil
}

// Close stops the watcher and the store's periodic task.
func (a *Agent) Close() error {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close rules watcher")
		}
	}
	return a.store.Close()
}

// Store exposes the underlying watch store.
func (a *Agent) Store() *watch.Store {
	return a.store
}

// MonitoredPaths returns the store's monitored set with exclude patterns
// applied. This is the set published to interceptors.
func (a *Agent) MonitoredPaths() []string {
	return a.FilterMonitored(a.store.MonitoredPaths())
}

// FilterMonitored applies the configured exclude patterns to a monitored
// set. Paths whose pattern match fails are kept; a broken pattern must not
// silently unwatch anything.
func (a *Agent) FilterMonitored(paths []string) []string {
	if a.excludes == nil {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		matched, err := a.excludes.MatchesOrParentMatches(p)
		if err != nil {
			a.logger.WithError(err).WithField("path", p).Warn("Exclude pattern match failed")
		}
		if err == nil && matched {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Status is the agent's self-description served on /api/status.
type Status struct {
	PID            int       `json:"pid"`
	StartedAt      time.Time `json:"started_at"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	ConfigFile     string    `json:"config_file,omitempty"`
	RulesSource    string    `json:"rules_source"`
	ReloadInterval string    `json:"reload_interval"`
	WatchEnabled   bool      `json:"watch_enabled"`
	RuleCount      int       `json:"rule_count"`
	MonitoredCount int       `json:"monitored_count"`
	Rebuilds       uint64    `json:"rebuilds"`
	LastReload     time.Time `json:"last_reload,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// Status snapshots the agent state.
func (a *Agent) Status() Status {
	st := Status{
		PID:            os.Getpid(),
		StartedAt:      a.startedAt,
		UptimeSeconds:  int64(time.Since(a.startedAt).Seconds()),
		ConfigFile:     a.configFile,
		RulesSource:    a.store.Source().Locator(),
		ReloadInterval: a.interval.String(),
		WatchEnabled:   a.watcher != nil,
		RuleCount:      a.store.RuleCount(),
		MonitoredCount: len(a.MonitoredPaths()),
		Rebuilds:       a.store.Rebuilds(),
		LastReload:     a.store.LastReload(),
	}
	if err := a.store.LastError(); err != nil {
		st.LastError = err.Error()
	}
	return st
}
