package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"

	"github.com/Pranavsangichetty/portfolio/internal/blobs"
	"github.com/Pranavsangichetty/portfolio/internal/content"
	"github.com/Pranavsangichetty/portfolio/internal/session"
)

// uploadField is the multipart field carrying uploaded files.
const uploadField = "files"

var (
	errUploadTooLarge  = errors.New("upload too large")
	errUploadMalformed = errors.New("malformed upload")
)

// readUploads reads every file of the upload field. A request without files
// yields an empty list, not an error.
func (s *Server) readUploads(c *gin.Context) ([]content.File, error) {
	if s.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("%w: limit is %s", errUploadTooLarge, units.HumanSize(float64(maxErr.Limit)))
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingFile):
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: %w", errUploadMalformed, err)
		}
	}

	headers := form.File[uploadField]
	files := make([]content.File, 0, len(headers))
	for _, h := range headers {
		data, err := readPart(h)
		if err != nil {
			return nil, err
		}
		files = append(files, content.File{Name: h.Filename, Content: data})
	}

	s.logger.Debug("upload received", "files", len(files), "path", c.Request.URL.Path)
	return files, nil
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.Filename, err)
	}
	return data, nil
}

// storeUploads runs fn under the session lock once the whole batch fits the
// session's upload quota, so a rejected batch stores none of its files.
func storeUploads(c *gin.Context, files []content.File, fn func(*content.Store) error) error {
	sess := session.FromContext(c)
	if sess == nil {
		return errors.New("no session on request")
	}

	var total int64
	for _, f := range files {
		total += int64(len(f.Content))
	}
	return sess.Do(func(st *content.Store) error {
		if err := sess.Blobs.Reserve(total); err != nil {
			return err
		}
		return fn(st)
	})
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge), errors.Is(err, blobs.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errUploadMalformed), errors.Is(err, content.ErrInvalidCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
