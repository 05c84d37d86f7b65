package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// OpenFunc opens a candidate's content for reading
type OpenFunc func(ctx context.Context) (io.ReadCloser, error)

// Candidate is a file offered for upload
type Candidate struct {
	Name string
	Size int64
	MIME string
	Open OpenFunc
}

// Source resolves references (paths, object keys) into candidates
type Source interface {
	Stat(ctx context.Context, ref string) (Candidate, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Collect stats every ref. Refs that cannot be read become rejections.
func Collect(ctx context.Context, src Source, refs []string) ([]Candidate, []Rejection) {
	candidates := make([]Candidate, 0, len(refs))
	var rejections []Rejection
	for _, ref := range refs {
		c, err := src.Stat(ctx, ref)
		if err != nil {
			rejections = append(rejections, Rejection{
				Name:   filepath.Base(ref),
				Reason: ReasonUnreadable,
				Err:    fmt.Errorf("file %q cannot be read: %w", filepath.Base(ref), err),
			})
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, rejections
}

// LocalSource reads files from the local filesystem
type LocalSource struct{}

// Stat describes a local file, sniffing its MIME type from content
func (LocalSource) Stat(ctx context.Context, path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, err
	}
	if info.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("detect type: %w", err)
	}

	return Candidate{
		Name: info.Name(),
		Size: info.Size(),
		MIME: mtype.String(),
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return LocalSource{}.Open(ctx, path)
		},
	}, nil
}

// Open opens a local file
func (LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}
