package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// UploadService stores menu images on local disk and returns their public URL
type UploadService interface {
	SaveImage(r io.Reader) (string, error)
}

type uploadService struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewUploadService stores files under dir, served at baseURL + "/uploads/"
func NewUploadService(dir, baseURL string, maxBytes int) UploadService {
	return &uploadService{dir: dir, baseURL: baseURL, maxBytes: int64(maxBytes)}
}

func (s *uploadService) SaveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidUpload, mtype.String())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + mtype.Extension()
	if err := writeFile(filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{"file": name, "type": mtype.String(), "bytes": len(data)}).Info("Image uploaded")
	return s.baseURL + "/uploads/" + name, nil
}

// writeFile copies src into a new file at path and leaves nothing behind on failure
func writeFile(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			log.WithError(removeErr).WithField("file", path).Warn("Failed to remove partial upload")
		}
		return err
	}
	return nil
}
