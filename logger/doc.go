// Package logger provides structured logging for callbridge using zerolog.
//
// It supports JSON and console output, level configuration, component
// tagged loggers and call/trace correlation taken from the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Info("call finished", logger.Fields("call_id", id, "status", 200))
package logger
