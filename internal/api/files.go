package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync/atomic"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// ProgressFunc receives the bytes of the file sent so far and the total
type ProgressFunc func(sent, total int64)

// Upload is one file to send to the media folders
type Upload struct {
	Kind models.MediaKind
	Name string
	MIME string
	Size int64
	Body io.Reader
}

func filesPath(kind models.MediaKind) string {
	return "/files/" + string(kind)
}

// ListFiles lists the server-side media folder. The backend reports an
// empty folder as 404; that is returned as an empty listing.
func (c *Client) ListFiles(ctx context.Context, kind models.MediaKind) ([]models.FileInfo, error) {
	return list[models.FileInfo](ctx, c, filesPath(kind))
}

// UploadFile streams u as a multipart form to /files/<kind>. The body is
// produced through a pipe, so the file is never buffered in memory.
func (c *Client) UploadFile(ctx context.Context, u Upload, progress ProgressFunc) (*models.MessageResponse, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	counter := &countingReader{r: u.Body, total: u.Size, progress: progress}

	go func() {
		part, err := form.CreatePart(partHeader(u.Kind.FormField(), u.Name, u.MIME))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, counter); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        filesPath(u.Kind),
		body:        pr,
		contentType: form.FormDataContentType(),
		upload:      true,
	})
	// unblocks the writer if the request ended before the body was drained
	pr.Close()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", u.Name, err)
	}

	out := &models.MessageResponse{}
	if err := decodeOptional(resp.body, out); err != nil {
		// a 2xx with a plain-text body still counts as uploaded
		out.Message = strings.TrimSpace(string(resp.body))
	}
	return out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func partHeader(field, filename, mimeType string) textproto.MIMEHeader {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimeType)
	return h
}

// countingReader reports progress as the wrapped reader is consumed
type countingReader struct {
	r        io.Reader
	total    int64
	sent     atomic.Int64
	progress ProgressFunc
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		sent := cr.sent.Add(int64(n))
		if cr.progress != nil {
			cr.progress(sent, cr.total)
		}
	}
	return n, err
}
