// Package logger builds slog loggers for the pipeline and provides attribute
// helpers for the keys its stages log with (stage, consumer, seq, fps, run_id).
//
//	log := logger.New(slog.LevelInfo, logger.FormatJSON, os.Stderr, logger.RunID(id))
//	log.Info("stage stopped", logger.Stage("display"), logger.Error(err))
package logger
