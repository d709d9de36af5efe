package discovery

import (
	"strings"

	"tdisc/internal/config"
)

// Log collects discovery messages up to a verbosity level.
// Messages are appended as given and carry their own line breaks.
type Log struct {
	level config.LoggingLevel
	buf   strings.Builder
}

// NewLog creates an empty Log for the given level
func NewLog(level config.LoggingLevel) *Log {
	return &Log{level: level}
}

// Reset clears the log and sets its level
func (l *Log) Reset(level config.LoggingLevel) {
	l.level = level
	l.buf.Reset()
}

// Normal appends msg unless the log is quiet
func (l *Log) Normal(msg string) {
	l.append(config.LoggingLevelNormal, msg)
}

// Verbose appends msg at verbose and debug level
func (l *Log) Verbose(msg string) {
	l.append(config.LoggingLevelVerbose, msg)
}

// Debug appends msg at debug level only
func (l *Log) Debug(msg string) {
	l.append(config.LoggingLevelDebug, msg)
}

func (l *Log) append(level config.LoggingLevel, msg string) {
	if l.level >= level {
		l.buf.WriteString(msg)
	}
}

// String returns everything logged since the last reset
func (l *Log) String() string {
	return l.buf.String()
}
