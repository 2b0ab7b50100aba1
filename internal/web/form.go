package web

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"requester-dashboard/internal/requests"
)

// decodeDraft reads the posted request form. File contents are sniffed for
// their type and then discarded.
func (s *Server) decodeDraft(r *http.Request) (requests.Draft, []requests.FileSelection, error) {
	var files []requests.FileSelection

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(int64(s.cfg.MaxUploadMemory)); err != nil {
			return requests.Draft{}, nil, fmt.Errorf("parse multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		for _, fh := range r.MultipartForm.File["files"] {
			sel, err := describeFile(fh)
			if err != nil {
				return requests.Draft{}, nil, err
			}
			files = append(files, sel)
		}
	} else if err := r.ParseForm(); err != nil {
		return requests.Draft{}, nil, fmt.Errorf("parse form: %w", err)
	}

	var d requests.Draft
	if err := s.decoder.Decode(&d, r.Form); err != nil {
		return requests.Draft{}, nil, fmt.Errorf("decode form: %w", err)
	}
	return d, files, nil
}

func describeFile(fh *multipart.FileHeader) (requests.FileSelection, error) {
	f, err := fh.Open()
	if err != nil {
		return requests.FileSelection{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return requests.FileSelection{}, fmt.Errorf("detect type of %s: %w", fh.Filename, err)
	}
	return requests.FileSelection{
		Name:        filepath.Base(fh.Filename),
		Size:        fh.Size,
		ContentType: mt.String(),
	}, nil
}
