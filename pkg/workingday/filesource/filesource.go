// Package filesource provides a refreshable source seeded from a file and
// reloaded whenever the file changes on disk.
package filesource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/stringsource"
)

var (
	// ErrNoPath is returned when the file path is empty.
	ErrNoPath = errors.New("file path is required")

	// ErrFileNotFound is returned when the file does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// afterSeed runs between the seed read and the start of the watch loop
var afterSeed = func() {}

// Source is a working day source whose state is parsed from a file.
// The file's directory is watched so that in-place writes as well as
// rename-over saves trigger a reload.
type Source[T any] struct {
	*stringsource.Source[T]

	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New reads path, parses its content with parse and starts watching it.
// It fails if path is empty, missing, a directory, or its content does not parse.
func New[T any](path string, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], opts ...stringsource.Option) (*Source[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory", path)
	}

	// the watch is registered before the seed read so no change is missed
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	opts = append([]stringsource.Option{stringsource.Kind("file")}, opts...)
	inner, err := stringsource.Load(readFile(abs), parse, check, opts...)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	afterSeed()

	s := &Source[T]{
		Source:  inner,
		path:    abs,
		watcher: watcher,
		logger:  inner.Logger().With(zap.String("file", abs)),
	}

	s.wg.Add(1)
	go s.watchLoop()

	s.logger.Info("File source started")

	return s, nil
}

// Path returns the absolute path of the watched file
func (s *Source[T]) Path() string {
	return s.path
}

// Reload re-reads the file immediately
func (s *Source[T]) Reload() error {
	return s.Refresh(readFile(s.path))
}

// Close stops watching the file. The last loaded state stays queryable.
func (s *Source[T]) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.watcher.Close()
		s.wg.Wait()
		s.logger.Info("File source stopped")
	})
	return s.closeErr
}

func (s *Source[T]) watchLoop() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				s.logger.Debug("Ignoring file event", zap.String("op", event.Op.String()))
				continue
			}

			s.logger.Debug("File changed, reloading", zap.String("op", event.Op.String()))
			// failures are logged by Refresh and the previous state is kept
			_ = s.Reload()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("File watch error", zap.Error(err))
		}
	}
}

func readFile(path string) stringsource.FetchFunc {
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// Use creates a Source for path and makes it the only source of b
func Use[T any](b *workingday.Builder, path string, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], opts ...stringsource.Option) (*Source[T], error) {
	src, err := New(path, parse, check, opts...)
	if err != nil {
		return nil, err
	}
	b.UseSource(src)
	return src, nil
}

// Add creates a Source for path and adds it to b
func Add[T any](b *workingday.Builder, path string, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], opts ...stringsource.Option) (*Source[T], error) {
	src, err := New(path, parse, check, opts...)
	if err != nil {
		return nil, err
	}
	b.AddSource(src)
	return src, nil
}
