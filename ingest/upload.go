package ingest

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/storage"
	"golang.org/x/sync/errgroup"
)

// Upload directories, relative to the store root.
const (
	DirProjectThumbnails  = "projects"
	DirProjectScreenshots = "projects/screenshots"
	DirEventImages        = "events"
	DirEventGallery       = "events/gallery"
)

const timestampLayout = "20060102150405"

// Uploader names incoming files and writes them to a storage.Store.
type Uploader struct {
	store storage.Store
	now   func() time.Time
}

func NewUploader(store storage.Store, now func() time.Time) *Uploader {
	if now == nil {
		now = time.Now
	}
	return &Uploader{store: store, now: now}
}

// SaveFile stores a single upload and returns its public path. A missing
// file or empty filename yields "" and no error.
func (u *Uploader) SaveFile(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", nil
	}
	return u.put(ctx, u.key(dir, fh.Filename), fh)
}

// SaveFiles stores uploads concurrently and returns their public paths in
// upload order. Files with an empty filename are skipped.
func (u *Uploader) SaveFiles(ctx context.Context, dir string, files []*multipart.FileHeader) ([]string, error) {
	var pending []*multipart.FileHeader
	for _, fh := range files {
		if fh != nil && fh.Filename != "" {
			pending = append(pending, fh)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	keys := make([]string, len(pending))
	seen := make(map[string]int, len(pending))
	for i, fh := range pending {
		base := u.key(dir, fh.Filename)
		key := base
		if n := seen[base]; n > 0 {
			key = withCounter(base, n)
		}
		seen[base]++
		keys[i] = key
	}

	paths := make([]string, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i, fh := range pending {
		i, fh := i, fh
		g.Go(func() error {
			p, err := u.put(gctx, keys[i], fh)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (u *Uploader) key(dir, filename string) string {
	name := u.now().Format(timestampLayout) + "_" + SecureFilename(filename)
	return path.Join(dir, name)
}

func (u *Uploader) put(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errs.NewStorageError(key, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	p, err := u.store.Put(ctx, key, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", errs.NewStorageError(key, err)
	}
	return p, nil
}

// withCounter turns "a/b_x.png" into "a/b_x_2.png" for the nth repeat.
func withCounter(key string, n int) string {
	ext := path.Ext(key)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(key, ext), n+1, ext)
}
