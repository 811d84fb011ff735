package exhibits

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
)

const columns = `id, case_id, kind, content_hash, mime_type, captured_at, location, filename,
	file_size, file_created_at, file_modified_at, device_info, app_version, page_count,
	storage_key, sealed, seal_hash, sealed_at, created_by, created_at`

var projection = query.
	NewProjectionMap("public", "evidence", "e").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("kind", "Kind").
	Project("content_hash", "ContentHash").
	Project("mime_type", "MimeType").
	Project("captured_at", "CapturedAt").
	Project("location", "Location").
	Project("filename", "Filename").
	Project("file_size", "FileSize").
	Project("file_created_at", "FileCreatedAt").
	Project("file_modified_at", "FileModifiedAt").
	Project("device_info", "DeviceInfo").
	Project("app_version", "AppVersion").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("sealed", "Sealed").
	Project("seal_hash", "SealHash").
	Project("sealed_at", "SealedAt").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt")

// Chronological order, ties broken by id, as the case integrity hash orders items.
var defaultSort = []query.SortField{
	{Field: "CapturedAt"},
	{Field: "ID"},
}

// Filters contains optional filtering criteria for evidence queries.
// Nil fields are ignored. CapturedFrom is inclusive and CapturedUntil exclusive.
type Filters struct {
	CaseID        *uuid.UUID `json:"case_id,omitempty"`
	Kinds         []string   `json:"kinds,omitempty"`
	MimeType      *string    `json:"mime_type,omitempty"`
	Filename      *string    `json:"filename,omitempty"`
	ContentHash   *string    `json:"content_hash,omitempty"`
	Sealed        *bool      `json:"sealed,omitempty"`
	CreatedBy     *string    `json:"created_by,omitempty"`
	CapturedFrom  *time.Time `json:"captured_from,omitempty"`
	CapturedUntil *time.Time `json:"captured_until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CaseID", f.CaseID).
		WhereIn("Kind", kindArgs(f.Kinds)).
		WhereEquals("MimeType", f.MimeType).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentHash", f.ContentHash).
		WhereEquals("Sealed", f.Sealed).
		WhereEquals("CreatedBy", f.CreatedBy).
		WhereBetween("CapturedAt", f.CapturedFrom, f.CapturedUntil)
}

func kindArgs(kinds []string) []any {
	args := make([]any, len(kinds))
	for i, k := range kinds {
		args[i] = k
	}
	return args
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("case_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.CaseID = &id
		}
	}
	for _, v := range values["kind"] {
		for k := range strings.SplitSeq(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				f.Kinds = append(f.Kinds, strings.ToUpper(k))
			}
		}
	}
	if v := values.Get("mime_type"); v != "" {
		f.MimeType = &v
	}
	if v := values.Get("filename"); v != "" {
		f.Filename = &v
	}
	if v := values.Get("content_hash"); v != "" {
		f.ContentHash = &v
	}
	if v := values.Get("sealed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Sealed = &b
		}
	}
	if v := values.Get("created_by"); v != "" {
		f.CreatedBy = &v
	}
	f.CapturedFrom = parseTime(values.Get("captured_from"))
	f.CapturedUntil = parseTime(values.Get("captured_until"))

	return f
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func scanExhibit(s repository.Scanner) (Exhibit, error) {
	var (
		x        Exhibit
		location []byte
	)
	err := s.Scan(
		&x.ID,
		&x.CaseID,
		&x.Kind,
		&x.ContentHash,
		&x.MimeType,
		&x.CapturedAt,
		&location,
		&x.Filename,
		&x.FileSize,
		&x.FileCreatedAt,
		&x.FileModifiedAt,
		&x.DeviceInfo,
		&x.AppVersion,
		&x.PageCount,
		&x.StorageKey,
		&x.Sealed,
		&x.SealHash,
		&x.SealedAt,
		&x.CreatedBy,
		&x.CreatedAt,
	)
	if err != nil {
		return x, err
	}

	if len(location) > 0 {
		x.Location = new(evidence.Location)
		if err := json.Unmarshal(location, x.Location); err != nil {
			return x, err
		}
	}
	return x, nil
}

func locationArg(l *evidence.Location) (any, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
