// logger/attr.go
// Author: momentics <momentics@gmail.com>
//
// Attribute helpers shared by pipeline log lines.

package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety, so
// log.Info("msg", logger.Error(err)) needs no nil check.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Stage names the pipeline stage a record comes from.
func Stage(name string) slog.Attr {
	return slog.String("stage", name)
}

// Consumer identifies a delivery queue.
func Consumer(id int) slog.Attr {
	return slog.Int("consumer", id)
}

// Seq is a frame sequence number.
func Seq(seq uint64) slog.Attr {
	return slog.Uint64("seq", seq)
}

// FPS is a measured frame rate, rounded to two decimals.
func FPS(rate float64) slog.Attr {
	return slog.Float64("fps", float64(int64(rate*100+0.5))/100)
}

// RunID tags every record of one pipeline run. Empty ids are dropped.
func RunID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("run_id", id)
}

// Count creates a generic counter attribute.
func Count(key string, n uint64) slog.Attr {
	return slog.Uint64(key, n)
}
