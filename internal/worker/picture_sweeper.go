package worker

import (
	"context"
	"log"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/labseat/internal/storage"
)

// PictureIndex lists every picture URL still referenced by a profile
// or by the upload history
type PictureIndex interface {
	ListPictureURLs(ctx context.Context) ([]string, error)
}

// ObjectStore is the picture storage the sweeper cleans
type ObjectStore interface {
	List(ctx context.Context) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// PictureSweeper periodically removes stored pictures that nothing
// references anymore, such as the pictures of deleted accounts
type PictureSweeper struct {
	index    PictureIndex
	store    ObjectStore
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewPictureSweeper creates a new sweeper. Objects younger than grace
// are never removed, so an upload in flight is not swept before its
// profile row points at it.
func NewPictureSweeper(index PictureIndex, store ObjectStore, interval, grace time.Duration) *PictureSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &PictureSweeper{
		index:    index,
		store:    store,
		interval: interval,
		grace:    grace,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (w *PictureSweeper) Start() {
	log.Printf("Picture sweeper started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.interval)
			if n, err := w.Sweep(ctx); err != nil {
				log.Printf("Picture sweeper: %v", err)
			} else if n > 0 {
				log.Printf("Picture sweeper: removed %d unreferenced pictures", n)
			}
			cancel()
		case <-w.stopChan:
			log.Println("Picture sweeper stopped")
			return
		}
	}
}

// Stop stops the sweep loop
func (w *PictureSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// Sweep runs one pass and returns the number of removed objects
func (w *PictureSweeper) Sweep(ctx context.Context) (int, error) {
	// list objects first: anything uploaded after the index is read is
	// then either younger than grace or already referenced
	objects, err := w.store.List(ctx)
	if err != nil {
		return 0, err
	}

	urls, err := w.index.ListPictureURLs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[objectKey(u)] = struct{}{}
	}

	cutoff := w.now().Add(-w.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := w.store.Delete(ctx, obj.Key); err != nil {
			log.Printf("Picture sweeper: failed to delete %s: %v", obj.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// objectKey returns the stored object name a picture URL points at.
// Keys are flat names, so the last path segment is the key whatever
// public path or URL prefix it was served under.
func objectKey(pictureURL string) string {
	if u, err := url.Parse(pictureURL); err == nil {
		pictureURL = u.Path
	}
	return path.Base(pictureURL)
}
