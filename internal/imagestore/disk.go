package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Disk keeps images in a local directory served under baseURL. Used when no
// image host is configured.
type Disk struct {
	dir     string
	baseURL string
}

var _ Store = (*Disk)(nil)

func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())

		return "", fmt.Errorf("write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return d.baseURL + "/" + name, nil
}

func (d *Disk) Delete(ctx context.Context, imageURL string) error {
	name := path.Base(imageURL)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("delete image: bad url %q", imageURL)
	}

	if err := os.Remove(filepath.Join(d.dir, name)); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	return nil
}
