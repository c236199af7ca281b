package logger

import (
	"sync"
)

// named holds loggers registered under a component name, typically one per
// adapter ("kafka.source", "redis.sink") so endpoints created in different
// places share a logger configured once.
var named = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{
	loggers: make(map[string]*Logger),
}

// Register stores a logger under name, replacing any previous entry.
func Register(name string, l *Logger) {
	named.mu.Lock()
	defer named.mu.Unlock()
	named.loggers[name] = l
}

// Get returns the logger registered under name. Unregistered names fall back
// to the global logger tagged with name as its component, so callers never
// need to check registration before logging.
func Get(name string) *Logger {
	named.mu.RLock()
	l, ok := named.loggers[name]
	named.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component-tagged children of the
// global logger. Call it after Init with the component names the process
// uses.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
