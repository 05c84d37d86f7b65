// Package upload validates media files and uploads them to the backend
// one at a time.
package upload

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const (
	MB = 1024 * 1024

	DefaultMaxImageSize = 10 * MB
	DefaultMaxVideoSize = 500 * MB
)

// Rule is the allow-list and size ceiling for one media kind
type Rule struct {
	Extensions []string
	MIMETypes  []string
	MaxSize    int64
}

// Rules holds the rule of each media kind
type Rules map[models.MediaKind]Rule

// DefaultRules returns the stock allow-lists and ceilings
func DefaultRules() Rules {
	return Rules{
		models.MediaImage: {
			Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"},
			MIMETypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"},
			MaxSize:    DefaultMaxImageSize,
		},
		models.MediaVideo: {
			Extensions: []string{".mp4", ".webm", ".ogg", ".mov"},
			MIMETypes:  []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime"},
			MaxSize:    DefaultMaxVideoSize,
		},
	}
}

// RulesFromConfig applies the configured size ceilings to DefaultRules
func RulesFromConfig(cfg config.UploadConfig) Rules {
	rules := DefaultRules()
	if cfg.MaxImageSize > 0 {
		r := rules[models.MediaImage]
		r.MaxSize = cfg.MaxImageSize
		rules[models.MediaImage] = r
	}
	if cfg.MaxVideoSize > 0 {
		r := rules[models.MediaVideo]
		r.MaxSize = cfg.MaxVideoSize
		rules[models.MediaVideo] = r
	}
	return rules
}

// AllowsName reports whether the file name has an allowed extension
func (r Rule) AllowsName(name string) bool {
	return slices.Contains(r.Extensions, strings.ToLower(filepath.Ext(name)))
}

// AllowsMIME reports whether the media type is allowed. Parameters such
// as charset are ignored.
func (r Rule) AllowsMIME(mime string) bool {
	return mime != "" && mimetype.EqualsAny(mime, r.MIMETypes...)
}

// RejectReason classifies a Rejection
type RejectReason string

const (
	ReasonUnsupported RejectReason = "unsupported_format"
	ReasonTooLarge    RejectReason = "too_large"
	ReasonUnreadable  RejectReason = "unreadable"
)

// Rejection is a file refused before upload
type Rejection struct {
	Name   string
	Reason RejectReason
	Err    error
}

func (r Rejection) Error() string {
	return r.Err.Error()
}

func reject(kind models.MediaKind, name string, reason RejectReason, err error) Rejection {
	metrics.RecordUploadRejection(string(kind), string(reason))
	return Rejection{Name: name, Reason: reason, Err: err}
}

// Validate splits files into those that may be uploaded and those that
// may not. A file passes the type check when either its MIME type or its
// extension is allowed. Rejections never stop the rest of the batch.
func (rules Rules) Validate(kind models.MediaKind, files []Candidate) ([]Candidate, []Rejection) {
	rule, ok := rules[kind]
	if !ok {
		rejections := make([]Rejection, 0, len(files))
		for _, f := range files {
			rejections = append(rejections, reject(kind, f.Name, ReasonUnsupported,
				fmt.Errorf("file %q has an unsupported format", f.Name)))
		}
		return nil, rejections
	}

	var accepted []Candidate
	var rejections []Rejection
	for _, f := range files {
		if !rule.AllowsMIME(f.MIME) && !rule.AllowsName(f.Name) {
			rejections = append(rejections, reject(kind, f.Name, ReasonUnsupported,
				fmt.Errorf("file %q has an unsupported format", f.Name)))
			continue
		}
		if f.Size > rule.MaxSize {
			rejections = append(rejections, reject(kind, f.Name, ReasonTooLarge,
				fmt.Errorf("file %q is too large (max %dMB)", f.Name, rule.MaxSize/MB)))
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejections
}
