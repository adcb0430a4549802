// Package thumbnail resolves, generates and caches note preview images.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/storage"
)

// FilePattern matches every generated thumbnail in the data directory.
const FilePattern = "thumb_*.jpg"

// ResourceLister returns the resources attached to a note.
type ResourceLister interface {
	GetResources(ctx context.Context, noteID string) ([]models.Resource, error)
}

// Options configure generation.
type Options struct {
	Timeout  time.Duration
	Quality  int
	Capacity int
	TTL      time.Duration
}

// Request describes the thumbnail wanted for one render.
type Request struct {
	NoteID string
	Body   string
	Width  int
	Square bool
}

// Service builds note thumbnails and keeps them cached in the data directory.
type Service struct {
	resources ResourceLister
	proc      Processor
	files     storage.Provider
	cache     *Cache
	group     singleflight.Group
	opts      Options
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(resources ResourceLister, proc Processor, files storage.Provider, opts Options, logger *slog.Logger) *Service {
	if opts.Quality <= 0 {
		opts.Quality = 80
	}
	s := &Service{
		resources: resources,
		proc:      proc,
		files:     files,
		opts:      opts,
		logger:    logger,
	}
	s.cache = NewCache(opts.Capacity, opts.TTL, s.evicted)
	return s
}

// Cache exposes the thumbnail cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

func (s *Service) evicted(id string, e Entry) {
	if err := s.files.Delete(FileName(id)); err != nil {
		s.logger.Debug("thumbnail: evicted file not removed",
			slog.String("resource_id", id), slog.String("error", err.Error()))
	}
}

// Purge deletes every generated thumbnail from the data directory, newest
// listing entry first, and empties the cache.
func (s *Service) Purge() error {
	s.cache.Clear()

	names, err := s.files.List(FilePattern)
	if err != nil {
		return fmt.Errorf("thumbnail: purge: %w", err)
	}
	for i := len(names) - 1; i >= 0; i-- {
		if err := s.files.Delete(names[i]); err != nil {
			return fmt.Errorf("thumbnail: purge: %w", err)
		}
	}
	s.logger.Debug("thumbnail: purged", slog.Int("files", len(names)))
	return nil
}

// Preview returns the thumbnail path of the first eligible image referenced
// in the note body, or "" if there is none. Generation failures are logged
// and the next candidate is tried.
func (s *Service) Preview(ctx context.Context, req Request) string {
	order := ResourceOrder(req.Body)
	if len(order) == 0 {
		return ""
	}

	resources, err := s.resources.GetResources(ctx, req.NoteID)
	if err != nil {
		s.logger.Error("thumbnail: get resources failed",
			slog.String("note_id", req.NoteID), slog.String("error", err.Error()))
		return ""
	}

	for _, res := range Candidates(order, resources) {
		if path, ok := s.cache.Get(res.ID, res.UpdatedTime); ok {
			return path
		}

		path, err := s.generateOnce(ctx, res, req)
		switch {
		case err == nil:
			return path
		case errors.Is(err, apperr.ErrResourceUnavailable):
			s.logger.Warn("thumbnail: resource unavailable",
				slog.String("resource_id", res.ID), slog.String("error", err.Error()))
		default:
			s.logger.Error("thumbnail: generate failed",
				slog.String("resource_id", res.ID), slog.String("error", err.Error()))
		}
	}
	return ""
}

// generateOnce shares one generation between concurrent renders of the same
// resource version.
func (s *Service) generateOnce(ctx context.Context, res models.Resource, req Request) (string, error) {
	key := res.ID + "@" + strconv.FormatInt(models.Millis(res.UpdatedTime), 10)
	v, err, _ := s.group.Do(key, func() (any, error) {
		if path, ok := s.cache.Get(res.ID, res.UpdatedTime); ok {
			return path, nil
		}
		path, err := s.generateWithTimeout(ctx, res, req)
		if err != nil {
			return "", err
		}
		s.cache.Put(res.ID, path, res.UpdatedTime)
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type result struct {
	path string
	err  error
}

func (s *Service) generateWithTimeout(ctx context.Context, res models.Resource, req Request) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		path, err := s.generate(ctx, res, req)
		done <- result{path: path, err: err}
	}()

	select {
	case r := <-done:
		return r.path, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("thumbnail: generate %s: %w", res.ID, ctx.Err())
	}
}

func (s *Service) generate(ctx context.Context, res models.Resource, req Request) (string, error) {
	img, err := s.proc.Load(ctx, res)
	if err != nil {
		return "", err
	}
	handles := []image.Image{img}
	defer func() {
		for _, h := range handles {
			s.proc.Release(h)
		}
	}()

	if req.Square {
		img = s.proc.Crop(img, CenterSquare(img.Bounds()))
		handles = append(handles, img)
	}
	if req.Width > 0 {
		img = s.proc.Resize(img, req.Width)
		handles = append(handles, img)
	}

	data, err := s.proc.Encode(img, s.opts.Quality)
	if err != nil {
		return "", err
	}
	name := FileName(res.ID)
	if err := s.files.Write(name, data); err != nil {
		return "", fmt.Errorf("thumbnail: write %s: %w", name, err)
	}
	return s.files.Path(name)
}
