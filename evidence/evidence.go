// Package evidence defines the case, evidence, and statement value types
// consumed by the Leveler, and the sealing primitives that make evidence
// tamper-evident. Sealed evidence has no update path: sealing returns a
// new value and never mutates its input.
package evidence

import (
	"time"

	"github.com/JaimeStill/verum/pkg/digest"
)

// Kind identifies the capture medium of an evidence item.
type Kind string

// Evidence kinds.
const (
	KindDocument Kind = "DOCUMENT"
	KindPhoto    Kind = "PHOTO"
	KindText     Kind = "TEXT"
	KindAudio    Kind = "AUDIO"
	KindVideo    Kind = "VIDEO"
)

// Kinds lists every evidence kind in declaration order.
var Kinds = []Kind{KindDocument, KindPhoto, KindText, KindAudio, KindVideo}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDocument, KindPhoto, KindText, KindAudio, KindVideo:
		return true
	}
	return false
}

// Location is the geolocation recorded at capture time.
// Accuracy and Altitude are optional.
type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Provider  string   `json:"provider,omitempty"`
}

// Metadata describes the file an evidence item was captured or imported from.
// ModifiedAt is nil when the source did not report a modification time.
type Metadata struct {
	Filename   string     `json:"filename"`
	FileSize   int64      `json:"file_size"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	DeviceInfo string     `json:"device_info,omitempty"`
	AppVersion string     `json:"app_version,omitempty"`
}

// Evidence is a single collected item belonging to a case.
// Content is omitted when the item is loaded from persistence without its blob.
type Evidence struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Content     []byte    `json:"content,omitempty"`
	ContentHash string    `json:"content_hash"`
	MimeType    string    `json:"mime_type"`
	Timestamp   time.Time `json:"timestamp"`
	Location    *Location `json:"location,omitempty"`
	Metadata    Metadata  `json:"metadata"`
	Sealed      bool      `json:"sealed"`
	SealHash    string    `json:"seal_hash,omitempty"`
}

// New builds an unsealed evidence item, computing its content hash.
// Timestamps are truncated to millisecond precision, the resolution seals are computed at.
func New(
	id string,
	kind Kind,
	content []byte,
	mimeType string,
	timestamp time.Time,
	location *Location,
	meta Metadata,
) Evidence {
	meta.CreatedAt = meta.CreatedAt.Truncate(time.Millisecond)
	if meta.ModifiedAt != nil {
		m := meta.ModifiedAt.Truncate(time.Millisecond)
		meta.ModifiedAt = &m
	}
	if meta.FileSize == 0 {
		meta.FileSize = int64(len(content))
	}

	return Evidence{
		ID:          id,
		Kind:        kind,
		Content:     content,
		ContentHash: digest.Sum(content),
		MimeType:    mimeType,
		Timestamp:   timestamp.Truncate(time.Millisecond),
		Location:    location,
		Metadata:    meta,
	}
}

// Label returns the human-readable description used in chronology events.
func (e Evidence) Label() string {
	if e.Metadata.Filename == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + " " + e.Metadata.Filename
}

// Statement is a free-text assertion attributed to a speaker.
// Statements are analysis input only and are never persisted by the core.
type Statement struct {
	ID        string    `json:"id"`
	Speaker   string    `json:"speaker"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}
