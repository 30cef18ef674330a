// Package logger provides structured logging for cryptokit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Callers must never pass
// passphrases, plaintexts, keys or tokens as fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("encryption")
//	log.Info("cryptographer replaced", logger.Fields("algorithm", "rijndael"))
package logger
