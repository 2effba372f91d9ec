package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory, mirrors the public prefix
	layout   layout
	log      zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// publicPrefix is the URL path the directory is served under, e.g. /uploads.
func NewLocalStorage(basePath, publicPrefix string) (*LocalStorage, error) {
	log := logger.With("local_storage")
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		log.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	log.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		layout:   newLayout(publicPrefix),
		log:      log,
	}, nil
}

// BasePath returns the directory backing the public prefix
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save stores r under subfolder with a random name
func (ls *LocalStorage) Save(ctx context.Context, subfolder, ext string, r io.Reader, size int64) (string, error) {
	return ls.SaveAs(ctx, subfolder, randomName(ext), r, size)
}

// SaveAs writes r to subfolder/name through a temp file so readers never see a partial file
func (ls *LocalStorage) SaveAs(ctx context.Context, subfolder, name string, r io.Reader, _ int64) (string, error) {
	key, err := ls.layout.key(subfolder, name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		ls.log.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		ls.log.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to flush file content: %w", err)
	}
	if err := os.Rename(tmpName, dstPath); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	publicPath := ls.layout.publicPath(key)
	ls.log.Debug().Str("path", publicPath).Msg("File saved")
	return publicPath, nil
}

// Open returns a reader for the file behind publicPath
func (ls *LocalStorage) Open(_ context.Context, publicPath string) (io.ReadCloser, error) {
	full, err := ls.fullPath(publicPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, publicPath)
	}
	return f, err
}

// Delete removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(_ context.Context, publicPath string) error {
	full, err := ls.fullPath(publicPath)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ls.log.Warn().Str("path", full).Msg("File to delete does not exist")
			return nil
		}
		ls.log.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.log.Debug().Str("path", full).Msg("File deleted")
	return nil
}

// Exists reports whether publicPath resolves to a regular file
func (ls *LocalStorage) Exists(_ context.Context, publicPath string) (bool, error) {
	full, err := ls.fullPath(publicPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (ls *LocalStorage) fullPath(publicPath string) (string, error) {
	key, err := ls.layout.keyFromPublic(publicPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(key)), nil
}
