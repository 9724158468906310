package inkwell

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Built-in program identifiers.
const (
	ShadingShaderID = "inkwell/shading.kage"
	NormalsShaderID = "inkwell/normals.kage"
	InkingShaderID  = "inkwell/inking.kage"
)

// builtinPrefix maps identifiers onto the embedded shaders directory.
const builtinPrefix = "inkwell/"

//go:embed shaders/*.kage
var builtinShaders embed.FS

// ErrShaderNotFound is returned when no search location holds an identifier.
var ErrShaderNotFound = errors.New("inkwell: shader not found")

// ErrInvalidShaderID is returned for identifiers that leave the search
// directories, such as "../x.kage".
var ErrInvalidShaderID = errors.New("inkwell: invalid shader identifier")

// Loader resolves path-like program identifiers against a list of search
// directories, then the built-in programs. Loaded programs are cached by
// identifier.
type Loader struct {
	dirs  []string
	cache map[string]*Shader

	watcher *fsnotify.Watcher
	changes chan string
	errOut  io.Writer
}

// NewLoader returns a loader that only knows the built-in programs.
func NewLoader() *Loader {
	return &Loader{
		cache:  make(map[string]*Shader),
		errOut: os.Stderr,
	}
}

// AddSearchDir appends dir to the search path. Directories are searched in
// the order they were added and before the built-in programs.
func (l *Loader) AddSearchDir(dir string) {
	l.dirs = append(l.dirs, dir)
	if l.watcher != nil {
		l.watchDir(dir)
	}
}

// SearchDirs returns the search path.
func (l *Loader) SearchDirs() []string {
	return l.dirs
}

// LoadShader returns the program for id, reading it on first use.
func (l *Loader) LoadShader(id string) (*Shader, error) {
	if s, ok := l.cache[id]; ok {
		return s, nil
	}
	src, p, err := l.read(id)
	if err != nil {
		return nil, err
	}
	s, err := NewShader(id, src)
	if err != nil {
		return nil, err
	}
	s.path = p
	l.cache[id] = s
	return s, nil
}

// read finds id on the search path. p is the file path for programs read
// from disk and "" for built-ins.
func (l *Loader) read(id string) (src []byte, p string, err error) {
	clean := path.Clean(strings.TrimPrefix(id, "/"))
	if !fs.ValidPath(clean) {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidShaderID, id)
	}
	for _, dir := range l.dirs {
		fp := filepath.Join(dir, filepath.FromSlash(clean))
		src, err = os.ReadFile(fp)
		if err == nil {
			abs, absErr := filepath.Abs(fp)
			if absErr != nil {
				abs = fp
			}
			return src, abs, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("read shader %s: %w", id, err)
		}
	}
	if name, ok := strings.CutPrefix(clean, builtinPrefix); ok {
		src, err = builtinShaders.ReadFile("shaders/" + name)
		if err == nil {
			return src, "", nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrShaderNotFound, id)
}

// --- Hot reload ---

// Watch starts watching the search directories. Changed programs are
// reloaded by PollChanges on the caller's goroutine.
func (l *Loader) Watch() error {
	if l.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("shader watcher: %w", err)
	}
	l.watcher = w
	l.changes = make(chan string, 64)
	for _, dir := range l.dirs {
		l.watchDir(dir)
	}
	go l.watchLoop(w, l.changes)
	return nil
}

// watchDir adds dir and its subdirectories to the watcher.
func (l *Loader) watchDir(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := l.watcher.Add(p); err != nil {
			_, _ = fmt.Fprintf(l.errOut, "[inkwell] shader watch %s: %v\n", p, err)
		}
		return nil
	})
}

// watchLoop forwards write and create events. Events are dropped when the
// queue is full; the next write of the same file will queue it again.
func (l *Loader) watchLoop(w *fsnotify.Watcher, out chan<- string) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				abs = ev.Name
			}
			select {
			case out <- abs:
			default:
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

// PollChanges reloads every cached program whose file changed since the last
// call and returns how many were reloaded. Must be called from the render
// goroutine.
func (l *Loader) PollChanges() int {
	if l.changes == nil {
		return 0
	}
	reloaded := 0
	for {
		select {
		case p := <-l.changes:
			reloaded += l.reloadPath(p)
		default:
			return reloaded
		}
	}
}

func (l *Loader) reloadPath(p string) int {
	n := 0
	for _, s := range l.cache {
		if s.path == "" || s.path != p {
			continue
		}
		src, err := os.ReadFile(p)
		if err != nil {
			_, _ = fmt.Fprintf(l.errOut, "[inkwell] shader reload: %v\n", err)
			continue
		}
		if err := s.reload(src); err != nil {
			_, _ = fmt.Fprintf(l.errOut, "[inkwell] shader reload: %v\n", err)
			continue
		}
		n++
	}
	return n
}

// Close stops watching. Programs stay usable.
func (l *Loader) Close() error {
	if l.watcher == nil {
		return nil
	}
	err := l.watcher.Close()
	l.watcher = nil
	return err
}
