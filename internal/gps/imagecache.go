package gps

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"sync"
)

// ImageCache is a keyed cache of decoded images.
//
// A batch touches each image at least once for recognition and possibly
// again for overlay rendering; the cache keeps the decoded frame so later
// consumers skip the disk read. Lookups take a read lock, stores the write
// lock. Entries live until Evict or Clear. The cache is scoped to a batch,
// not to the process; the recognition model cache is the only state meant
// to outlive a batch.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache ready for concurrent use.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]image.Image)}
}

// Load returns the decoded image for path, reading it from disk on first
// use. Concurrent first loads of the same path may decode twice; the first
// stored result wins.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.images[path]; ok {
		return prev, nil
	}
	c.images[path] = img
	return img, nil
}

// Evict drops the cached image for path. It does nothing when the path is
// not cached.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear drops every cached image. The cache stays usable afterwards.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
