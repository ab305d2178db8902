package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Factory creates category loggers that share one configuration.
//
// Loggers handed out before a reconfiguration keep their old settings;
// configure the factory before asking it for loggers.
type Factory struct {
	mu      sync.RWMutex
	cfg     Config
	level   zerolog.Level
	hooks   []zerolog.Hook
	loggers map[string]*Logger
}

// NewFactory creates a factory from cfg after applying defaults.
func NewFactory(cfg Config) *Factory {
	cfg.ApplyDefaults()
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return &Factory{
		cfg:     cfg,
		level:   level,
		loggers: make(map[string]*Logger),
	}
}

// NewDefaultFactory creates a console factory at info level.
func NewDefaultFactory(serviceName string) *Factory {
	return NewFactory(Config{ServiceName: serviceName})
}

// Logger returns the cached logger for a category, creating it on first use.
func (f *Factory) Logger(category string) *Logger {
	f.mu.RLock()
	l, ok := f.loggers[category]
	f.mu.RUnlock()
	if ok {
		return l
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.loggers[category]; ok {
		return l
	}

	zl := newZerolog(&f.cfg, f.cfg.ServiceName).Level(f.level)
	for _, h := range f.hooks {
		zl = zl.Hook(h)
	}
	if category != "" {
		zl = zl.With().Str(FieldCategory, category).Logger()
	}
	l = &Logger{logger: zl, service: f.cfg.ServiceName}
	f.loggers[category] = l
	return l
}

// SetLevel changes the minimum level for loggers created afterwards.
func (f *Factory) SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = lvl
	f.cfg.Level = level
	f.reset()
	return nil
}

// Level returns the configured minimum level.
func (f *Factory) Level() zerolog.Level {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.level
}

// SetOutput redirects loggers created afterwards to w.
func (f *Factory) SetOutput(w io.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg.Writer = w
	f.reset()
}

// SetFormat switches between "json" and "console" output.
func (f *Factory) SetFormat(format string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg.Format = format
	f.reset()
}

// AddHook attaches a zerolog hook to loggers created afterwards.
func (f *Factory) AddHook(h zerolog.Hook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, h)
	f.reset()
}

// Config returns a copy of the current configuration.
func (f *Factory) Config() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

// reset drops cached loggers so the next Logger call picks up new settings.
func (f *Factory) reset() {
	f.loggers = make(map[string]*Logger)
}
