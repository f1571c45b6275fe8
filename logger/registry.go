package logger

import "sync"

// named holds loggers registered per component, keyed by name.
var named sync.Map

// Register makes l the logger returned by Get(name).
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Unregister removes a named logger so Get falls back to the global logger.
func Unregister(name string) {
	named.Delete(name)
}

// Get returns the logger registered under name, or the current global
// logger tagged with component=name. The fallback follows SetGlobalLogger.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
