package models

import (
	"fmt"
	"strings"
)

// MediaKind selects one of the two server-side media folders
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "img"
)

// ParseMediaKind accepts "video", "img" and "image"
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "videos":
		return MediaVideo, nil
	case "img", "image", "images":
		return MediaImage, nil
	default:
		return "", fmt.Errorf("unknown media kind %q (want video or img)", s)
	}
}

// FormField is the multipart field name the upload endpoint reads
func (k MediaKind) FormField() string {
	if k == MediaImage {
		return "image"
	}
	return "video"
}

// Label is a human-readable plural for messages
func (k MediaKind) Label() string {
	if k == MediaImage {
		return "images"
	}
	return "videos"
}

// FileInfo is one entry of a server-side media folder listing
type FileInfo struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime string `json:"mod_time"`
}

// SizeMB returns the size in megabytes
func (f FileInfo) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}
