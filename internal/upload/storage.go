package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"cleansweep/internal/model"
)

// PublicPrefix is the URL prefix the upload directory is served under.
const PublicPrefix = "/uploads/"

// DiskStorage validates media and writes it to a local directory.
type DiskStorage struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
	// last is the last timestamp prefix handed out, in milliseconds.
	last atomic.Int64
}

// NewDiskStorage creates the upload directory when missing.
func NewDiskStorage(dir string, maxBytes int64, logger *zap.Logger) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskStorage{dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

// Dir is the directory files are stored in.
func (s *DiskStorage) Dir() string {
	return s.dir
}

// Accept validates files for the report type and stores them in order. It
// returns the public paths of the stored files. Either every file is stored
// or none is.
func (s *DiskStorage) Accept(ctx context.Context, files []*multipart.FileHeader, reportType model.ReportType) ([]string, error) {
	if err := Validate(files, reportType, s.maxBytes); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			s.Discard(paths)
			return nil, err
		}
		p, err := s.save(fh)
		if err != nil {
			s.Discard(paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Discard removes previously stored files by public path. Missing files are ignored.
func (s *DiskStorage) Discard(paths []string) {
	for _, p := range paths {
		name := path.Base(strings.TrimPrefix(p, PublicPrefix))
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("discard upload", zap.String("path", p), zap.Error(err))
		}
	}
}

func (s *DiskStorage) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := s.storedName(fh.Filename)
	dst := filepath.Join(s.dir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return PublicPrefix + name, nil
}

// storedName builds "<millis>-<slug><ext>". The prefix never repeats within a
// process, so two uploads of the same name never collide.
func (s *DiskStorage) storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "media"
	}
	return fmt.Sprintf("%d-%s%s", s.nextStamp(), base, ext)
}

func (s *DiskStorage) nextStamp() int64 {
	for {
		now := time.Now().UnixMilli()
		last := s.last.Load()
		if now <= last {
			now = last + 1
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
