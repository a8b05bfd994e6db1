package Models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestLog is one audited HTTP request. Bodies are stored as raw JSON so the
// logs API can return them without re-parsing.
type RequestLog struct {
	gorm.Model
	Timestamp     time.Time      `json:"timestamp" gorm:"index"`
	Method        string         `json:"method"`
	Path          string         `json:"path" gorm:"index"`
	Status        int            `json:"status"`
	LatencyMs     float64        `json:"latency_ms"`
	IP            string         `json:"ip"`
	UserAgent     string         `json:"user_agent"`
	Username      string         `json:"username"`
	Tenant        string         `json:"tenant"`
	RequestBody   datatypes.JSON `json:"request_body,omitempty"`
	Error         string         `json:"error,omitempty"`
	ContentLength int64          `json:"content_length"`
}
