package exhibits

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/verum/evidence"
)

// formMeta holds the capture metadata shared by every file of an upload.
type formMeta struct {
	kind           evidence.Kind
	capturedAt     time.Time
	location       *evidence.Location
	fileCreatedAt  time.Time
	fileModifiedAt *time.Time
	deviceInfo     string
	appVersion     string
}

// parseFormMeta reads optional capture metadata from multipart form values.
func parseFormMeta(form *multipart.Form) (formMeta, error) {
	get := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	var (
		m   formMeta
		err error
	)

	if v := get("kind"); v != "" {
		m.kind = evidence.Kind(strings.ToUpper(v))
		if !m.kind.Valid() {
			return m, fmt.Errorf("%w: %s", ErrInvalidKind, v)
		}
	}

	if m.capturedAt, err = formTime(get("captured_at")); err != nil {
		return m, err
	}
	if m.fileCreatedAt, err = formTime(get("file_created_at")); err != nil {
		return m, err
	}
	modified, err := formTime(get("file_modified_at"))
	if err != nil {
		return m, err
	}
	if !modified.IsZero() {
		m.fileModifiedAt = &modified
	}

	if m.location, err = formLocation(get); err != nil {
		return m, err
	}

	m.deviceInfo = get("device_info")
	m.appVersion = get("app_version")
	return m, nil
}

func formTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, v)
	}
	return t, nil
}

func formLocation(get func(string) string) (*evidence.Location, error) {
	lat, lon := get("latitude"), get("longitude")
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, ErrInvalidLocation
	}

	l := &evidence.Location{Provider: get("location_provider")}
	var err error
	if l.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return nil, ErrInvalidLocation
	}
	if l.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
		return nil, ErrInvalidLocation
	}
	if l.Accuracy, err = optionalFloat(get("accuracy")); err != nil {
		return nil, ErrInvalidLocation
	}
	if l.Altitude, err = optionalFloat(get("altitude")); err != nil {
		return nil, ErrInvalidLocation
	}
	return l, nil
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// commandFromFile reads an uploaded file into a CreateCommand carrying meta.
func commandFromFile(logger *slog.Logger, fh *multipart.FileHeader, meta formMeta) (CreateCommand, error) {
	file, err := fh.Open()
	if err != nil {
		return CreateCommand{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return CreateCommand{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	contentType := detectContentType(fh.Header.Get("Content-Type"), data)

	kind := meta.kind
	if kind == "" {
		kind = InferKind(contentType)
	}

	return CreateCommand{
		Data:           data,
		Filename:       fh.Filename,
		ContentType:    contentType,
		Kind:           kind,
		CapturedAt:     meta.capturedAt,
		Location:       meta.location,
		FileCreatedAt:  meta.fileCreatedAt,
		FileModifiedAt: meta.fileModifiedAt,
		DeviceInfo:     meta.deviceInfo,
		AppVersion:     meta.appVersion,
		PageCount:      extractPDFPageCount(logger, data, contentType),
	}, nil
}

// InferKind maps a MIME type onto an evidence kind. Anything unrecognized is a document.
func InferKind(contentType string) evidence.Kind {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.ToLower(strings.TrimSpace(base))

	switch {
	case strings.HasPrefix(base, "image/"):
		return evidence.KindPhoto
	case strings.HasPrefix(base, "audio/"):
		return evidence.KindAudio
	case strings.HasPrefix(base, "video/"):
		return evidence.KindVideo
	case strings.HasPrefix(base, "text/"), base == "application/json", base == "message/rfc822":
		return evidence.KindText
	}
	return evidence.KindDocument
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != defaultMimeType {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrFileTooLarge
	}
	return fmt.Errorf("%w: %v", ErrInvalidFile, err)
}
