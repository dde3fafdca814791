// Package logging constructs the zerolog.Logger the coverage runner is
// given explicitly at construction time. Per spec §9's "no hidden
// singletons" note, nothing in this module reaches for a package-level
// logger — every component that logs takes a Sink through its
// constructor.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Sink is the minimal logging capability the core consumes, matching
// spec §6's "info / warning / error" severities. Tests substitute a
// recording stub; production code wraps a zerolog.Logger.
type Sink interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// ZerologSink adapts a zerolog.Logger to Sink.
type ZerologSink struct {
	log zerolog.Logger
}

// New builds a ZerologSink writing human-readable console output to w.
func New(w io.Writer) *ZerologSink {
	return &ZerologSink{log: zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()}
}

// Discard builds a ZerologSink that writes nowhere, for tests that don't
// care about log output.
func Discard() *ZerologSink {
	return &ZerologSink{log: zerolog.New(io.Discard)}
}

// NewFile opens path for append and returns a ZerologSink writing JSON
// lines to it, plus a close func the caller must defer.
func NewFile(path string) (*ZerologSink, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return &ZerologSink{log: zerolog.New(f).With().Timestamp().Logger()}, f.Close, nil
}

func (s *ZerologSink) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (s *ZerologSink) Info(msg string, kv ...any)  { s.event(s.log.Info(), msg, kv) }
func (s *ZerologSink) Warn(msg string, kv ...any)  { s.event(s.log.Warn(), msg, kv) }
func (s *ZerologSink) Error(msg string, kv ...any) { s.event(s.log.Error(), msg, kv) }
