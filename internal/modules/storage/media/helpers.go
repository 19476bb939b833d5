package media

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

// kindOf maps a declared content type to its media family, or "" when the
// type is neither an image nor a video.
func kindOf(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	case strings.HasPrefix(ct, "video/"):
		return KindVideo
	}
	return ""
}

func defaultExt(kind string) string {
	if kind == KindVideo {
		return ".mp4"
	}
	return ".jpg"
}

// buildFileName generates a fresh unique filename that keeps the original
// extension, or falls back to the kind's default one.
func buildFileName(original, kind string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if len(ext) < 2 || len(ext) > 10 || !isSafeSegment(ext) {
		ext = defaultExt(kind)
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// safeName returns the base name of raw only when it passes isSafeSegment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	if !isSafeSegment(name) {
		return ""
	}
	return name
}

// isSafeSegment returns true when s contains only alphanumerics, hyphens,
// underscores, or dots.
func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}
