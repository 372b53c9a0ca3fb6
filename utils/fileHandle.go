package utils

import (
	"errors"
	"io"
	"lms/config"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrUnknownUploadKind  = errors.New("unknown upload kind")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// UploadKind describes what an upload endpoint accepts. Allowed entries ending
// in "/" match a MIME type prefix, others match exactly.
type UploadKind struct {
	Name     string
	MaxBytes int64
	Allowed  []string
}

const megabyte = 1 << 20

// LookupUploadKind returns the rules for courseImage, courseAttachment and chapterVideo
func LookupUploadKind(name string) (UploadKind, error) {
	maxUpload := int64(config.AppConfig.MaxUploadMB) * megabyte
	switch name {
	case "courseImage":
		return UploadKind{Name: name, MaxBytes: 4 * megabyte, Allowed: []string{"image/"}}, nil
	case "courseAttachment":
		return UploadKind{Name: name, MaxBytes: maxUpload, Allowed: []string{"text/", "image/", "video/", "audio/", "application/pdf"}}, nil
	case "chapterVideo":
		return UploadKind{Name: name, MaxBytes: maxUpload, Allowed: []string{"video/"}}, nil
	}
	return UploadKind{}, ErrUnknownUploadKind
}

func (k UploadKind) allows(mimeType string) bool {
	for _, allowed := range k.Allowed {
		if strings.HasSuffix(allowed, "/") && strings.HasPrefix(mimeType, allowed) {
			return true
		}
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// SaveUploadedFile checks the sniffed MIME type and size against kind and
// stores the file under destDir with a random name. It returns the stored file name.
func SaveUploadedFile(file *multipart.FileHeader, destDir string, kind UploadKind) (string, error) {
	if file.Size > kind.MaxBytes {
		return "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	if !kind.allows(mtype.String()) {
		return "", ErrFileTypeNotAllowed
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = mtype.Extension()
	}
	newFilename := uuid.NewString() + strings.ToLower(ext)

	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return newFilename, nil
}

// GetFileURL returns the public URL of a stored upload
func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return config.AppConfig.AppURL + "/uploads/" + filename
}
