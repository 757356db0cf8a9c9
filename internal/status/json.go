package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Occupants     int        `json:"occupants"`
	Capacity      int        `json:"capacity"`
	Band          string     `json:"band"`
	Resetting     bool       `json:"resetting"`
	LastMessage   string     `json:"last_message,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of outcome counts.
type CountsJSON struct {
	Admitted      int `json:"admitted"`
	Rejected      int `json:"rejected"`
	Released      int `json:"released"`
	EmptyReleases int `json:"empty_releases"`
	Resets        int `json:"resets"`
	Dropped       int `json:"dropped"`
}

// ConfigJSON is the JSON representation of panel config.
type ConfigJSON struct {
	Capacity       int   `json:"capacity"`
	QueueDepth     int   `json:"queue_depth"`
	DebounceMs     int64 `json:"debounce_ms"`
	StatusPeriodMs int64 `json:"status_period_ms"`
	HeartbeatMs    int64 `json:"heartbeat_ms"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Occupants:     snap.Count,
		Capacity:      snap.Config.Capacity,
		Band:          snap.Band.String(),
		Resetting:     snap.Reconciling,
		LastMessage:   snap.LastMessage,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Admitted:      snap.Counts.Admitted,
			Rejected:      snap.Counts.Rejected,
			Released:      snap.Counts.Released,
			EmptyReleases: snap.Counts.EmptyReleases,
			Resets:        snap.Counts.Resets,
			Dropped:       snap.Counts.Dropped,
		},
		Config: ConfigJSON{
			Capacity:       snap.Config.Capacity,
			QueueDepth:     snap.Config.QueueDepth,
			DebounceMs:     snap.Config.DebounceMs,
			StatusPeriodMs: snap.Config.StatusPeriodMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
		},
	}
}

// FormatJSON returns the indented JSON status (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the single-line JSON status for a lifecycle log
// line (STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
