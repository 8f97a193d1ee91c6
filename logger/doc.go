// Package logger provides structured logging backed by zerolog.
//
// A Logger is built once at process start from Config and passed to every
// component. Besides the console stream it can write each run to its own
// file under Config.Dir, named <prefix>_YYYYMMDD_HHMMSS.log.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//	  dir: "logs"
//
// # Usage
//
//	log, err := logger.New(&cfg.Logging, "transcription-server")
//	defer log.Close()
//	log.WithComponent("store").Info("saved", logger.Fields("path", p))
package logger
