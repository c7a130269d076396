package models

import "time"

// LogType classifies a progress log entry.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
)

// LogEntry is one progress line emitted during a generation run.
type LogEntry struct {
	Timestamp string  `json:"timestamp"`
	Message   string  `json:"message"`
	Type      LogType `json:"type"`
}

// NewLogEntry stamps message with the current local wall-clock time.
func NewLogEntry(message string, typ LogType) LogEntry {
	return LogEntry{
		Timestamp: time.Now().Format(time.TimeOnly),
		Message:   message,
		Type:      typ,
	}
}
