package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Well-known subfolders
const (
	CertificatesFolder = "certificates"
	ApplicationsFolder = "membership_applications"
)

var (
	// ErrNotFound is returned when a stored object does not exist
	ErrNotFound = errors.New("file not found")
	// ErrInvalidPath is returned for paths outside the public prefix or with traversal segments
	ErrInvalidPath = errors.New("invalid file path")
	// ErrUnreadableUpload is returned when an uploaded part cannot be opened
	ErrUnreadableUpload = errors.New("uploaded file could not be read")
)

var subfolderPattern = regexp.MustCompile(`^[a-z0-9_\-]+(/[a-z0-9_\-]+)*$`)

// Storage persists files under a logical subfolder and hands back web-servable
// paths of the form <public prefix>/<subfolder>/<name>.
type Storage interface {
	// Save stores r under a random name that keeps ext
	Save(ctx context.Context, subfolder, ext string, r io.Reader, size int64) (string, error)

	// SaveAs stores r under the exact name, replacing any previous object
	SaveAs(ctx context.Context, subfolder, name string, r io.Reader, size int64) (string, error)

	// Open returns the content behind a public path
	Open(ctx context.Context, publicPath string) (io.ReadCloser, error)

	// Delete removes the object behind a public path. Missing objects are not an error.
	Delete(ctx context.Context, publicPath string) error

	// Exists reports whether a public path resolves to a stored object
	Exists(ctx context.Context, publicPath string) (bool, error)
}

// SaveFileHeader stores an uploaded multipart file under subfolder with a random name
func SaveFileHeader(ctx context.Context, s Storage, fileHeader *multipart.FileHeader, subfolder string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadableUpload, err)
	}
	defer file.Close()

	return s.Save(ctx, subfolder, strings.ToLower(filepath.Ext(fileHeader.Filename)), file, fileHeader.Size)
}

// CleanSubfolder validates a caller supplied subfolder such as "gallery" or
// "membership_applications/<id>"
func CleanSubfolder(subfolder string) (string, error) {
	subfolder = strings.Trim(strings.ToLower(strings.TrimSpace(subfolder)), "/")
	if subfolder == "" || !subfolderPattern.MatchString(subfolder) {
		return "", fmt.Errorf("%w: subfolder %q", ErrInvalidPath, subfolder)
	}
	return subfolder, nil
}

// randomName builds <uuid><ext>
func randomName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return uuid.NewString() + strings.ToLower(ext)
}

// layout maps between storage keys (subfolder/name) and public paths (prefix/subfolder/name)
type layout struct {
	prefix string
}

func newLayout(prefix string) layout {
	prefix = "/" + strings.Trim(prefix, "/")
	return layout{prefix: prefix}
}

func (l layout) key(subfolder, name string) (string, error) {
	clean, err := CleanSubfolder(subfolder)
	if err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: name %q", ErrInvalidPath, name)
	}
	return clean + "/" + name, nil
}

func (l layout) publicPath(key string) string {
	return l.prefix + "/" + key
}

func (l layout) keyFromPublic(publicPath string) (string, error) {
	rest, ok := strings.CutPrefix(publicPath, l.prefix+"/")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, publicPath)
	}
	cleaned := path.Clean(rest)
	if cleaned != rest || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, publicPath)
	}
	return cleaned, nil
}
