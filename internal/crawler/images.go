package crawler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"sjsage522/productscraper/helpers"
)

// ImageDownloader saves product images under a folder
type ImageDownloader struct {
	client *http.Client
	folder string
	newID  func() string
}

var _ ImageStore = (*ImageDownloader)(nil)

// NewImageDownloader creates an image downloader writing into folder
func NewImageDownloader(client *http.Client, folder string) *ImageDownloader {
	return &ImageDownloader{
		client: client,
		folder: folder,
		newID:  uuid.NewString,
	}
}

// FileName returns the unique file name for a product image
func (d *ImageDownloader) FileName(title string) string {
	name := fmt.Sprintf("%s_%s.jpg", helpers.SanitizeFilename(title), d.newID())
	return strings.ReplaceAll(name, " ", "_")
}

// Download fetches the image and writes it to a new file, returning its path
func (d *ImageDownloader) Download(ctx context.Context, imageURL, title string) (string, error) {
	if err := os.MkdirAll(d.folder, 0o755); err != nil {
		return "", fmt.Errorf("create images folder: %w", err)
	}

	data, err := helpers.FetchSimply(ctx, d.client, imageURL)
	if err != nil {
		return "", fmt.Errorf("download image %s: %w", imageURL, err)
	}

	path := filepath.Join(d.folder, d.FileName(title))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", path, err)
	}

	return path, nil
}
