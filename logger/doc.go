// Package logger provides structured logging for hostkit using zerolog.
//
// A Factory owns the logging configuration of one host and hands out cached
// category loggers. The host registers exactly one Factory as a singleton and
// shares that instance between its host-scoped and application-scoped
// services.
//
// # Usage
//
//	f := logger.NewFactory(logger.Config{Level: "debug", Format: "json"})
//	log := f.Logger("bootstrap")
//	log.Info("host built", logger.Fields("extensions", 2))
package logger
