package vfs

import (
	"bytes"
	"io"
	"io/fs"
	"sync"
	"time"
)

// FS is a single flat directory of named byte blobs stored on a
// BlockDevice. It implements io/fs.FS so it can be handed to anything that
// accepts a standard filesystem, including internal/ftp's server.
type FS struct {
	mu     sync.RWMutex
	dev    *BlockDevice
	next   int // next free block
	files  map[string]*dirent
	stored map[string][]byte // decoded file contents, keyed by name
}

type dirent struct {
	name    string
	size    int64
	modTime time.Time
}

// New creates an empty filesystem over dev.
func New(dev *BlockDevice) *FS {
	return &FS{
		dev:    dev,
		files:  make(map[string]*dirent),
		stored: make(map[string][]byte),
	}
}

// WriteFile stores data under name, allocating fresh blocks for it. A file
// with the same name is fully replaced; its old blocks are not reclaimed,
// matching the original RAM disk's lack of a free-block list.
func (f *FS) WriteFile(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	size := f.dev.BlockSize()
	needed := (len(data) + size - 1) / size
	if needed == 0 {
		needed = 1
	}
	if f.next+needed > f.dev.NumBlocks() {
		return fs.ErrInvalid
	}

	start := f.next
	for i := 0; i < needed; i++ {
		blk := start + i
		if err := f.dev.EraseBlock(blk); err != nil {
			return err
		}
		lo, hi := i*size, (i+1)*size
		if hi > len(data) {
			hi = len(data)
		}
		var chunk []byte
		if lo < len(data) {
			chunk = data[lo:hi]
		}
		if err := f.dev.WriteBlock(blk, chunk); err != nil {
			return err
		}
	}
	f.next += needed

	f.files[name] = &dirent{name: name, size: int64(len(data)), modTime: time.Now()}
	stored := make([]byte, len(data))
	copy(stored, data)
	f.stored[name] = stored
	return nil
}

// Remove deletes name from the directory. Its blocks are not reclaimed.
func (f *FS) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[name]; !ok {
		return fs.ErrNotExist
	}
	delete(f.files, name)
	delete(f.stored, name)
	return nil
}

// List returns the names of every file currently in the directory.
func (f *FS) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	return names
}

// Open implements io/fs.FS.
func (f *FS) Open(name string) (fs.File, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if name == "." {
		entries := make([]fs.DirEntry, 0, len(f.files))
		for _, d := range f.files {
			entries = append(entries, dirEntry{d})
		}
		return &dirHandle{entries: entries}, nil
	}

	d, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &fileHandle{d: d, r: bytes.NewReader(f.stored[name])}, nil
}

type fileHandle struct {
	d *dirent
	r *bytes.Reader
}

func (h *fileHandle) Stat() (fs.FileInfo, error) { return fileInfo{h.d}, nil }
func (h *fileHandle) Read(p []byte) (int, error) { return h.r.Read(p) }
func (h *fileHandle) Close() error               { return nil }

// ReadAt gives random access into the file's contents without re-opening
// it. internal/ftp does not use it.
func (h *fileHandle) ReadAt(p []byte, off int64) (int, error) { return h.r.ReadAt(p, off) }

type fileInfo struct{ d *dirent }

func (i fileInfo) Name() string       { return i.d.name }
func (i fileInfo) Size() int64        { return i.d.size }
func (i fileInfo) Mode() fs.FileMode  { return 0o644 }
func (i fileInfo) ModTime() time.Time { return i.d.modTime }
func (i fileInfo) IsDir() bool        { return false }
func (i fileInfo) Sys() any           { return nil }

type dirEntry struct{ d *dirent }

func (e dirEntry) Name() string               { return e.d.name }
func (e dirEntry) IsDir() bool                { return false }
func (e dirEntry) Type() fs.FileMode          { return 0o644 }
func (e dirEntry) Info() (fs.FileInfo, error) { return fileInfo{e.d}, nil }

type dirHandle struct {
	entries []fs.DirEntry
	off     int
}

func (h *dirHandle) Stat() (fs.FileInfo, error) {
	return fileInfo{&dirent{name: ".", modTime: time.Now()}}, nil
}
func (h *dirHandle) Read([]byte) (int, error) { return 0, io.EOF }
func (h *dirHandle) Close() error             { return nil }

func (h *dirHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	if h.off >= len(h.entries) {
		if n <= 0 {
			return nil, nil
		}
		return nil, io.EOF
	}
	rest := h.entries[h.off:]
	if n <= 0 {
		h.off = len(h.entries)
		return rest, nil
	}
	if n > len(rest) {
		n = len(rest)
	}
	h.off += n
	return rest[:n], nil
}
