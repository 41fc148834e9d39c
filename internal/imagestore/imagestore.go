// Package imagestore holds article images outside the database.
package imagestore

import (
	"context"
	"io"
	"path"
	"strings"
)

// Folder groups article images on the image host.
const Folder = "sports-news"

// Store uploads an image and returns its public URL, and deletes an image
// given that URL.
type Store interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// PublicID derives the host key of an image from its URL: the folder plus
// the last path segment without its extension.
func PublicID(folder, imageURL string) string {
	u := imageURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	name := path.Base(u)
	name = strings.TrimSuffix(name, path.Ext(name))
	if folder == "" {
		return name
	}

	return folder + "/" + name
}
