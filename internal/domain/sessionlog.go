package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionLog is the capture log the firmware keeps next to the photos.
type SessionLog struct {
	Camera    int               `json:"camera"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Photos    []SessionLogEntry `json:"photos"`
	Failures  []SessionLogEntry `json:"failures"`
}

type SessionLogEntry struct {
	Index     int    `json:"index"`
	Path      string `json:"path,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func ParseSessionLog(data []byte) (SessionLog, error) {
	var log SessionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return SessionLog{}, fmt.Errorf("parse session log: %w", err)
	}
	return log, nil
}

// Started returns the parsed start time. The firmware writes local time
// without a zone.
func (l SessionLog) Started() (time.Time, bool) {
	return parseLogTime(l.StartTime)
}

func (l SessionLog) Ended() (time.Time, bool) {
	return parseLogTime(l.EndTime)
}

var logTimeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
}

func parseLogTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range logTimeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
