package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/hostprep/pkg/types"
)

// aferoFS implements types.FS using afero. Backends without native
// symlinks (MemMapFs) get an in-process link table with a placeholder
// file so directory listings still show the link.
type aferoFS struct {
	fs afero.Fs

	mu    sync.RWMutex
	links map[string]string
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs, links: make(map[string]string)}
}

// NewMemory returns an in-memory filesystem for tests.
func NewMemory() types.FS {
	return NewAferoFS(afero.NewMemMapFs())
}

func (a *aferoFS) native() (afero.Linker, afero.LinkReader, bool) {
	linker, ok1 := a.fs.(afero.Linker)
	reader, ok2 := a.fs.(afero.LinkReader)
	_, isMem := a.fs.(*afero.MemMapFs)
	return linker, reader, ok1 && ok2 && !isMem
}

func (a *aferoFS) link(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	target, ok := a.links[filepath.Clean(name)]
	return target, ok
}

func (a *aferoFS) resolve(name string) string {
	for i := 0; i < 40; i++ {
		target, ok := a.link(name)
		if !ok {
			return name
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(name), target)
		}
		name = target
	}
	return name
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(a.resolve(name))
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if target, ok := a.link(name); ok {
		return linkInfo{name: filepath.Base(name), target: target}, nil
	}
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	name = a.resolve(name)
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, a.resolve(name), data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, a.resolve(name))
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		if target, ok := a.link(filepath.Join(name, entry.Name())); ok {
			entry = linkInfo{name: entry.Name(), target: target}
		}
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if linker, _, ok := a.native(); ok {
		return linker.SymlinkIfPossible(oldname, newname)
	}
	if _, err := a.Lstat(newname); err == nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if _, err := a.fs.Stat(filepath.Dir(newname)); err != nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrNotExist}
	}
	if err := afero.WriteFile(a.fs, newname, nil, 0777); err != nil {
		return err
	}
	a.mu.Lock()
	a.links[filepath.Clean(newname)] = oldname
	a.mu.Unlock()
	return nil
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if _, reader, ok := a.native(); ok {
		return reader.ReadlinkIfPossible(name)
	}
	if target, ok := a.link(name); ok {
		return target, nil
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
}

func (a *aferoFS) Remove(name string) error {
	if err := a.fs.Remove(name); err != nil {
		return err
	}
	a.mu.Lock()
	delete(a.links, filepath.Clean(name))
	a.mu.Unlock()
	return nil
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	if err := a.fs.Rename(oldpath, newpath); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if target, ok := a.links[filepath.Clean(oldpath)]; ok {
		delete(a.links, filepath.Clean(oldpath))
		a.links[filepath.Clean(newpath)] = target
	}
	return nil
}

// linkInfo describes an emulated symlink
type linkInfo struct {
	name   string
	target string
}

func (l linkInfo) Name() string       { return l.name }
func (l linkInfo) Size() int64        { return int64(len(l.target)) }
func (l linkInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0777 }
func (l linkInfo) ModTime() time.Time { return time.Time{} }
func (l linkInfo) IsDir() bool        { return false }
func (l linkInfo) Sys() interface{}   { return nil }
