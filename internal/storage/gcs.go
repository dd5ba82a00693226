// Package storage wraps the object store holding uploaded documents. The
// pipeline only reads from it; Upload exists for the upload-deed utility.
package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Downloader fetches raw object bytes by bucket and path.
type Downloader interface {
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}

// GCSDownloader reads objects from Google Cloud Storage.
type GCSDownloader struct {
	client *gcs.Client
}

// NewGCSDownloader creates a downloader with a shared storage client.
func NewGCSDownloader(ctx context.Context, opts ...option.ClientOption) (*GCSDownloader, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSDownloader{client: client}, nil
}

// Download reads the full object at gs://bucket/path into memory.
func (d *GCSDownloader) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	r, err := d.client.Bucket(bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader for gs://%s/%s: %w", bucket, path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object gs://%s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// Upload streams r into gs://bucket/path, overwriting any existing object.
func (d *GCSDownloader) Upload(ctx context.Context, bucket, path string, r io.Reader) error {
	w := d.client.Bucket(bucket).Object(path).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("write GCS object gs://%s/%s: %w", bucket, path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload gs://%s/%s: %w", bucket, path, err)
	}
	return nil
}

// Close releases the underlying client.
func (d *GCSDownloader) Close() error {
	return d.client.Close()
}
