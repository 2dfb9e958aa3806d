package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	absPath string
	relPath string
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	paths := d.fs.pathsUnder(d.absPath)
	sort.Strings(paths)

	var skipped []string
	for _, p := range paths {
		if isUnderAny(p, skipped) {
			continue
		}

		info := d.fs.entries[p]
		rel := "."
		if p != d.absPath {
			rel = strings.TrimPrefix(p, strings.TrimSuffix(d.absPath, "/")+"/")
		}

		err := fn(&memoryFile{absPath: p, relPath: rel, info: info}, nil)
		if errors.Is(err, fs.SkipDir) && info.IsDir() {
			skipped = append(skipped, p)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isUnderAny(p string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(p, d+"/") {
			return true
		}
	}
	return false
}

// MemoryFileSystem is an in-memory FileSystemProvider for tests.
// Paths always use forward slashes.
type MemoryFileSystem struct {
	entries map[string]*memoryFileInfo
	root    string
}

// NewMemoryFileSystem creates an empty tree rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryFileInfo),
		root:    root,
	}
	mfs.addDir(root)
	return mfs
}

// AddFile adds a file, creating its parent directories. Relative paths are
// resolved against the root.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	abs := mfs.resolve(filePath)
	mfs.entries[abs] = &memoryFileInfo{
		name:    path.Base(abs),
		size:    int64(len(content)),
		mode:    0o644,
		modTime: time.Now(),
	}
	mfs.ensureParents(abs)
}

// AddDir adds an empty directory.
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	abs := mfs.resolve(dirPath)
	mfs.addDir(abs)
	mfs.ensureParents(abs)
}

func (mfs *MemoryFileSystem) addDir(abs string) {
	if _, ok := mfs.entries[abs]; ok {
		return
	}
	mfs.entries[abs] = &memoryFileInfo{
		name:    path.Base(abs),
		mode:    0o755 | fs.ModeDir,
		modTime: time.Now(),
	}
}

func (mfs *MemoryFileSystem) ensureParents(abs string) {
	for dir := path.Dir(abs); dir != abs; abs, dir = dir, path.Dir(dir) {
		mfs.addDir(dir)
		if dir == "/" || dir == "." {
			return
		}
	}
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(mfs.root, p)
}

func (mfs *MemoryFileSystem) pathsUnder(base string) []string {
	var out []string
	prefix := strings.TrimSuffix(base, "/") + "/"
	for p := range mfs.entries {
		if p == base || strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	abs := mfs.resolve(openPath)
	info, ok := mfs.entries[abs]
	if !ok {
		return nil, fmt.Errorf("directory not found: %s: %w", openPath, fs.ErrNotExist)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: abs, fs: mfs}, nil
}

func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	abs := mfs.resolve(dirPath)
	info, ok := mfs.entries[abs]
	if !ok || !info.IsDir() {
		return nil, fmt.Errorf("failed to read directory: %s: %w", dirPath, fs.ErrNotExist)
	}

	var result []FileInfo
	for p, child := range mfs.entries {
		if p != abs && path.Dir(p) == abs {
			result = append(result, child)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	info, ok := mfs.entries[mfs.resolve(statPath)]
	if !ok {
		return nil, fmt.Errorf("path not found: %s: %w", statPath, fs.ErrNotExist)
	}
	return info, nil
}
