// Package storage persists enrollment vouchers and resolves them to public URLs.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"bailemos/internal/config"
	"bailemos/internal/models"
	"bailemos/internal/observability"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "uploads"
	DefaultPublicBaseURL   = "http://localhost:5000"
	DefaultMaxUploadSizeMB = 5

	// PublicPrefix is the URL path segment stored references start with.
	PublicPrefix = "uploads"
	// EnrollmentDir holds one voucher per enrollment id.
	EnrollmentDir = "enrollments"
)

var dataURLPattern = regexp.MustCompile(`^data:image/([A-Za-z0-9.+-]*);base64,(.+)$`)

// Ref is a stored artifact. At most one of Path and URL is set.
type Ref struct {
	Path string
	URL  string
}

// Empty reports whether the reference points nowhere.
func (r Ref) Empty() bool {
	return r.Path == "" && r.URL == ""
}

// IsExternalURL reports whether payload is an already hosted http(s) link.
func IsExternalURL(payload string) bool {
	p := strings.ToLower(strings.TrimSpace(payload))
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Store writes vouchers under a local directory served at /uploads.
type Store struct {
	baseDir       string
	publicBaseURL string
	maxBytes      int64
}

func NewStore(cfg *config.Config) *Store {
	baseDir := DefaultUploadDir
	publicBaseURL := DefaultPublicBaseURL
	maxMB := DefaultMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			baseDir = cfg.UploadDir
		}
		if cfg.PublicBaseURL != "" {
			publicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
		}
		if cfg.MaxVoucherSizeMB > 0 {
			maxMB = cfg.MaxVoucherSizeMB
		}
	}

	return &Store{
		baseDir:       baseDir,
		publicBaseURL: publicBaseURL,
		maxBytes:      int64(maxMB) * 1024 * 1024,
	}
}

// BaseDir is the directory mounted at /uploads.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Inline is a decoded data-URL image ready to be written.
type Inline struct {
	Ext     string
	Content []byte
}

// Persist stores payload for the enrollment identified by id. External URLs are
// returned verbatim without touching the disk; inline data URLs are decoded and
// written to <baseDir>/enrollments/<id>.<ext>.
func (s *Store) Persist(ctx context.Context, id, payload string) (Ref, error) {
	if IsExternalURL(payload) {
		return Ref{URL: strings.TrimSpace(payload)}, nil
	}
	in, err := s.Decode(payload)
	if err != nil {
		return Ref{}, err
	}
	return s.Write(ctx, id, in)
}

// Decode parses and sniffs an inline data URL without writing anything.
func (s *Store) Decode(payload string) (*Inline, error) {
	m := dataURLPattern.FindStringSubmatch(strings.TrimSpace(payload))
	if m == nil {
		return nil, models.NewValidationError("Voucher must be an image data URL or an http(s) link")
	}

	content, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, models.NewValidationError("Voucher is not valid base64")
	}
	if len(content) == 0 {
		return nil, models.NewValidationError("Voucher is empty")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Voucher too large (max %dMB)", s.maxBytes/(1024*1024)))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Voucher is not a recognised image")
	}
	return &Inline{Ext: extensionFor(m[1], format), Content: content}, nil
}

// Write stores a decoded voucher under the enrollment id.
func (s *Store) Write(ctx context.Context, id string, in *Inline) (Ref, error) {
	_, span := observability.StartServiceSpan(ctx, "storage", "Write")
	defer span.End()

	if id == "" || strings.ContainsAny(id, `/\.`) {
		return Ref{}, models.NewValidationError("Invalid artifact identifier")
	}

	filename := id + "." + in.Ext
	dir := filepath.Join(s.baseDir, EnrollmentDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		span.SetError(err)
		return Ref{}, models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), in.Content, 0o600); err != nil {
		span.SetError(err)
		return Ref{}, models.NewInternalError(err)
	}
	observability.ArtifactBytes.Observe(float64(len(in.Content)))

	return Ref{Path: path.Join(PublicPrefix, EnrollmentDir, filename)}, nil
}

// extensionFor maps a declared MIME subtype to a file extension. Subtypes
// outside the decodable set fall back to the sniffed format.
func extensionFor(declared, sniffed string) string {
	switch sub := strings.ToLower(declared); sub {
	case "":
		return "png"
	case "jpeg", "jpg", "pjpeg":
		return "jpg"
	case "png", "gif", "webp":
		return sub
	}
	switch sniffed {
	case "jpeg":
		return "jpg"
	case "png", "gif", "webp":
		return sniffed
	}
	return "png"
}

// ResolveURL turns a reference into a publicly fetchable link, or nil.
func (s *Store) ResolveURL(ref Ref) *string {
	switch {
	case ref.Path != "":
		u := s.publicBaseURL + "/" + strings.TrimLeft(strings.ReplaceAll(ref.Path, `\`, "/"), "/")
		return &u
	case ref.URL != "":
		u := ref.URL
		return &u
	}
	return nil
}

// Open reads back an artifact stored by Persist.
func (s *Store) Open(ref string) ([]byte, error) {
	abs, err := s.localPath(ref)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// Remove deletes a stored artifact. A missing file is not an error.
func (s *Store) Remove(ref string) error {
	abs, err := s.localPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) localPath(ref string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(ref)), "/")
	rel = strings.TrimPrefix(rel, PublicPrefix+"/")
	if rel == "" || rel == "." || !strings.HasPrefix(rel, EnrollmentDir+"/") {
		return "", fmt.Errorf("artifact %q is outside the store", ref)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(rel)), nil
}
