// Package exhibits implements evidence intake for cases. Each uploaded item is
// stored as a blob, recorded with its content hash, and sealed. The package also
// verifies items and cases against their seals, seals whole cases, and produces
// the case snapshots analyses run over.
package exhibits

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
)

// Exhibit is a persisted evidence item with its storage reference and custody data.
type Exhibit struct {
	ID             uuid.UUID          `json:"id"`
	CaseID         uuid.UUID          `json:"case_id"`
	Kind           evidence.Kind      `json:"kind"`
	ContentHash    string             `json:"content_hash"`
	MimeType       string             `json:"mime_type"`
	CapturedAt     time.Time          `json:"captured_at"`
	Location       *evidence.Location `json:"location,omitempty"`
	Filename       string             `json:"filename"`
	FileSize       int64              `json:"file_size"`
	FileCreatedAt  time.Time          `json:"file_created_at"`
	FileModifiedAt *time.Time         `json:"file_modified_at,omitempty"`
	DeviceInfo     string             `json:"device_info,omitempty"`
	AppVersion     string             `json:"app_version,omitempty"`
	PageCount      *int               `json:"page_count,omitempty"`
	StorageKey     string             `json:"storage_key"`
	Sealed         bool               `json:"sealed"`
	SealHash       *string            `json:"seal_hash,omitempty"`
	SealedAt       *time.Time         `json:"sealed_at,omitempty"`
	CreatedBy      string             `json:"created_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Evidence returns the sealable projection of x. Content is not loaded.
func (x Exhibit) Evidence() evidence.Evidence {
	e := evidence.Evidence{
		ID:          x.ID.String(),
		Kind:        x.Kind,
		ContentHash: x.ContentHash,
		MimeType:    x.MimeType,
		Timestamp:   x.CapturedAt,
		Location:    x.Location,
		Metadata: evidence.Metadata{
			Filename:   x.Filename,
			FileSize:   x.FileSize,
			CreatedAt:  x.FileCreatedAt,
			ModifiedAt: x.FileModifiedAt,
			DeviceInfo: x.DeviceInfo,
			AppVersion: x.AppVersion,
		},
		Sealed: x.Sealed,
	}
	if x.SealHash != nil {
		e.SealHash = *x.SealHash
	}
	return e
}

// CreateCommand carries the data needed to store and register a new evidence item.
// A zero CapturedAt defaults to the time of intake and a zero FileCreatedAt to CapturedAt.
type CreateCommand struct {
	CaseID         uuid.UUID
	Data           []byte
	Filename       string
	ContentType    string
	Kind           evidence.Kind
	CapturedAt     time.Time
	Location       *evidence.Location
	FileCreatedAt  time.Time
	FileModifiedAt *time.Time
	DeviceInfo     string
	AppVersion     string
	PageCount      *int
	CreatedBy      string
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Exhibit is populated and Error is empty.
// On failure, Error describes the problem and Exhibit is nil.
type BatchResult struct {
	Exhibit  *Exhibit `json:"exhibit,omitempty"`
	Filename string   `json:"filename"`
	Error    string   `json:"error,omitempty"`
}

// Verification is the result of checking one item's stored content and seal.
type Verification struct {
	ID           uuid.UUID `json:"id"`
	ContentMatch bool      `json:"content_match"`
	SealMatch    bool      `json:"seal_match"`
	Verified     bool      `json:"verified"`
}

// CaseVerification is the result of checking every item of a case and its integrity hash.
// An open case has no integrity hash and never verifies.
type CaseVerification struct {
	CaseID         uuid.UUID       `json:"case_id"`
	Status         evidence.Status `json:"status"`
	IntegrityHash  string          `json:"integrity_hash,omitempty"`
	IntegrityMatch bool            `json:"integrity_match"`
	Items          []Verification  `json:"items"`
	Verified       bool            `json:"verified"`
}
