// Package mediastore is the object side of the persistence gateway:
// uploaded photos live under context-keyed path prefixes and are served
// by provider-issued download URLs, not paths the app re-derives.
package mediastore

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Path prefixes per upload context.
const (
	PrefixEvents   = "events"
	PrefixMemories = "memories"
)

type Uploader interface {
	Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
	DownloadURL(object string) string
}

type GCSUploader struct {
	client *storage.Client
	bucket string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	if u == nil || u.client == nil {
		return "", fmt.Errorf("media store not configured")
	}
	object := ObjectName(prefix, filename, time.Now())
	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	return object, nil
}

func (u *GCSUploader) DownloadURL(object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, strings.TrimLeft(object, "/"))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectName builds the stored object path: timestamp plus sanitized
// filename under the context prefix, so repeated uploads of the same file
// never collide.
func ObjectName(prefix, filename string, now time.Time) string {
	name := unsafeChars.ReplaceAllString(filename, "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%d_%s", strings.Trim(prefix, "/"), now.UnixMilli(), name)
}
