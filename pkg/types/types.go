// Package types defines shared types used across the serve-delayed codebase.
package types

import "time"

// RequestRecord is one served request as kept by the access log.
type RequestRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Method     string    `json:"method" yaml:"method"`
	Path       string    `json:"path" yaml:"path"`
	Resolved   string    `json:"resolved,omitempty" yaml:"resolved,omitempty"` // file chosen by the resolver
	Fallback   bool      `json:"fallback" yaml:"fallback"`                     // index.html served for a missing path
	Status     int       `json:"status" yaml:"status"`
	Bytes      int64     `json:"bytes" yaml:"bytes"`
	DelayMs    int64     `json:"delay_ms" yaml:"delay_ms"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
	Remote     string    `json:"remote,omitempty" yaml:"remote,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
