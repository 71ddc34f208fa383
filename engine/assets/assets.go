package assets

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/spaghettifunk/renderpass/engine/assets/loaders"
	"github.com/spaghettifunk/renderpass/engine/core"
	"github.com/spaghettifunk/renderpass/engine/renderer/renderpass"
	"github.com/spaghettifunk/renderpass/engine/systems"
)

/**
 * @brief A compiled render pass description.
 * Entries are never modified once published; a reload publishes a new entry.
 */
type Entry struct {
	ID       uuid.UUID
	Name     string
	Path     string
	Pass     *renderpass.Renderpass
	LoadedAt time.Time
}

type EventKind int

const (
	EVENT_LOADED EventKind = iota
	EVENT_FAILED
	EVENT_REMOVED
	EVENT_WATCH_ERROR
)

func (k EventKind) String() string {
	switch k {
	case EVENT_LOADED:
		return "loaded"
	case EVENT_FAILED:
		return "failed"
	case EVENT_REMOVED:
		return "removed"
	case EVENT_WATCH_ERROR:
		return "watch error"
	}
	return "unknown"
}

type Event struct {
	Kind  EventKind
	Path  string
	Entry *Entry
	Err   error
}

// Size of the event queue. Events are dropped while it is full.
const eventQueueSize = 64

var ErrLibraryClosed = errors.New("render pass library already shut down")

type Library struct {
	entries map[string]*Entry
	// name of the entry each file compiled to
	paths   map[string]string
	loader  Loader
	workers int

	mutex sync.RWMutex

	// guards started and isClosed, and events against a send after close
	state    sync.RWMutex
	watch    bool
	started  bool
	done     chan struct{}
	stopped  sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan Event

	watchMutex sync.Mutex
	// watched directories, false when only files loaded on their own are watched in it
	watchedDirs  map[string]bool
	watchedFiles map[string]struct{}
}

// NewLibrary creates an empty library. With watch set, Initialize also starts
// recompiling descriptions whose files change. Initialize compiles on up to
// workers goroutines, one per CPU when workers is less than 1.
func NewLibrary(watch bool, workers int) (*Library, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	l := &Library{
		entries: make(map[string]*Entry),
		paths:   make(map[string]string),
		loader:  &loaders.RenderpassLoader{},
		workers: workers,
		watch:   watch,
		events:  make(chan Event, eventQueueSize),
		done:    make(chan struct{}),

		watchedDirs:  make(map[string]bool),
		watchedFiles: make(map[string]struct{}),
	}
	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		l.fsnotify = fsWatch
	}
	return l, nil
}

// Initialize compiles every description under assetsDir. Files that fail are
// reported together in the returned error; the others are still available.
func (l *Library) Initialize(assetsDir string) error {
	if l.closed() {
		return ErrLibraryClosed
	}
	err := l.watchRecursive(assetsDir)
	if startErr := l.startWatcher(); startErr != nil {
		return startErr
	}
	return err
}

// Load compiles a single description file into the library. A watching
// library also recompiles the file when it changes, but not its siblings.
func (l *Library) Load(path string) (*Entry, error) {
	path = filepath.Clean(path)
	if l.closed() {
		return nil, ErrLibraryClosed
	}
	if l.watch {
		if err := l.watchFile(path); err != nil {
			if l.closed() {
				return nil, ErrLibraryClosed
			}
			return nil, errors.Wrapf(err, "watching %s", path)
		}
		if err := l.startWatcher(); err != nil {
			return nil, err
		}
	}
	return l.handleFileEvent(path)
}

func (l *Library) Get(name string) (*Entry, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	e, ok := l.entries[name]
	if !ok {
		return nil, errors.Wrapf(core.ErrDescriptionNotFound, "%q", name)
	}
	return e, nil
}

// Names lists the compiled descriptions in order.
func (l *Library) Names() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	names := make([]string, 0, len(l.entries))
	for n := range l.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (l *Library) Events() <-chan Event {
	return l.events
}

// Shutdown stops the watcher and closes the event channel. Loading into a
// library that is shut down fails with ErrLibraryClosed.
func (l *Library) Shutdown() error {
	l.state.Lock()
	if l.isClosed {
		l.state.Unlock()
		return nil
	}
	l.isClosed = true
	started := l.started
	l.state.Unlock()

	close(l.done)
	if started {
		l.stopped.Wait()
	} else if l.fsnotify != nil {
		l.fsnotify.Close()
	}

	l.state.Lock()
	close(l.events)
	l.state.Unlock()
	return nil
}

// startWatcher starts the watcher goroutine of a watching library once.
func (l *Library) startWatcher() error {
	l.state.Lock()
	defer l.state.Unlock()
	if l.isClosed {
		return ErrLibraryClosed
	}
	if l.watch && !l.started {
		l.started = true
		l.stopped.Add(1)
		go l.start()
	}
	return nil
}

func (l *Library) watchDir(dir string) error {
	l.watchMutex.Lock()
	defer l.watchMutex.Unlock()
	if l.watchedDirs[dir] {
		return nil
	}
	if err := l.fsnotify.Add(dir); err != nil {
		return err
	}
	l.watchedDirs[dir] = true
	return nil
}

// watchFile watches the directory of path for changes to path alone.
func (l *Library) watchFile(path string) error {
	l.watchMutex.Lock()
	defer l.watchMutex.Unlock()
	l.watchedFiles[path] = struct{}{}
	dir := filepath.Dir(path)
	if _, ok := l.watchedDirs[dir]; ok {
		return nil
	}
	if err := l.fsnotify.Add(dir); err != nil {
		delete(l.watchedFiles, path)
		return err
	}
	l.watchedDirs[dir] = false
	return nil
}

// watching reports whether changes to path concern the library.
func (l *Library) watching(path string) bool {
	l.watchMutex.Lock()
	defer l.watchMutex.Unlock()
	if l.watchedDirs[filepath.Dir(path)] {
		return true
	}
	_, ok := l.watchedFiles[path]
	return ok
}

func (l *Library) closed() bool {
	l.state.RLock()
	defer l.state.RUnlock()
	return l.isClosed
}

// publish queues e for Events. Only a watching library that is not shut down
// publishes.
func (l *Library) publish(e Event) {
	if !l.watch {
		return
	}
	l.state.RLock()
	defer l.state.RUnlock()
	if l.isClosed {
		return
	}
	select {
	case l.events <- e:
	default:
		core.LogWarn("render pass library event queue full, dropping %s event for %s", e.Kind, e.Path)
	}
}

func (l *Library) start() {
	defer l.stopped.Done()
	for {
		select {

		case e := <-l.fsnotify.Events:
			path := filepath.Clean(e.Name)
			if !l.watching(path) {
				continue
			}
			s, err := os.Stat(path)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := l.watchRecursive(path); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				l.handleFileEvent(path)
			}
			// A removed or renamed file drops its entry; fsnotify stops watching it on its own.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				l.removeAsset(path)
			}

		case err := <-l.fsnotify.Errors:
			core.LogError(err.Error())
			l.publish(Event{Kind: EVENT_WATCH_ERROR, Err: err})

		case <-l.done:
			l.fsnotify.Close()
			return
		}
	}
}

// watchRecursive compiles every description under path and, when watching,
// adds every directory to the watch list. A file created before its directory
// watch is added is only picked up on its next write.
func (l *Library) watchRecursive(path string) error {
	var files []string
	err := filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if l.watch {
				return l.watchDir(filepath.Clean(walkPath))
			}
			return nil
		}
		if isDescription(walkPath) {
			files = append(files, filepath.Clean(walkPath))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return l.compileAll(files)
}

// compileAll compiles files on the library's workers and combines their errors.
func (l *Library) compileAll(files []string) error {
	js, err := systems.NewJobSystem(min(l.workers, max(len(files), 1)), len(files))
	if err != nil {
		return err
	}
	var mutex sync.Mutex
	var errs error
	for _, file := range files {
		js.Submit(systems.JobTask{
			Name: file,
			OnStart: func() error {
				_, err := l.handleFileEvent(file)
				return err
			},
			OnFailure: func(err error) {
				mutex.Lock()
				errs = errors.CombineErrors(errs, err)
				mutex.Unlock()
			},
		})
	}
	if err := js.Shutdown(); err != nil {
		return err
	}
	return errs
}

// handleFileEvent compiles the description at path and publishes the result.
// A description that fails keeps the entry compiled from its last good version.
func (l *Library) handleFileEvent(path string) (*Entry, error) {
	if l.closed() {
		return nil, ErrLibraryClosed
	}
	if !isDescription(path) {
		return nil, nil
	}
	clock := core.NewClock()
	clock.Start()
	desc, err := l.loader.Load(path)
	var rp *renderpass.Renderpass
	if err == nil {
		rp, err = renderpass.Create(desc.Params)
		err = errors.Wrapf(err, "%s", path)
	}
	clock.Stop()
	core.MetricsUpdate(clock.Elapsed(), err == nil)
	if err != nil {
		core.LogError("render pass %s: %v", path, err)
		l.publish(Event{Kind: EVENT_FAILED, Path: path, Err: err})
		return nil, err
	}

	entry := &Entry{
		ID:       uuid.New(),
		Name:     desc.Name,
		Path:     path,
		Pass:     rp,
		LoadedAt: time.Now(),
	}
	l.mutex.Lock()
	if old, ok := l.paths[path]; ok && old != desc.Name && l.entries[old] != nil && l.entries[old].Path == path {
		delete(l.entries, old)
	}
	l.entries[desc.Name] = entry
	l.paths[path] = desc.Name
	l.mutex.Unlock()

	core.LogInfo("render pass %q compiled from %s in %s (%s)", entry.Name, path, clock.Elapsed(), entry.ID)
	l.publish(Event{Kind: EVENT_LOADED, Path: path, Entry: entry})
	return entry, nil
}

// Remove the entry compiled from path if the file was deleted
func (l *Library) removeAsset(path string) {
	l.mutex.Lock()
	name, ok := l.paths[path]
	if ok {
		delete(l.paths, path)
		if e := l.entries[name]; e != nil && e.Path == path {
			delete(l.entries, name)
		}
	}
	l.mutex.Unlock()

	if ok {
		core.LogInfo("render pass %q removed with %s", name, path)
		l.publish(Event{Kind: EVENT_REMOVED, Path: path})
	}
}

func isDescription(path string) bool {
	return strings.HasSuffix(path, loaders.RenderpassExtension)
}
