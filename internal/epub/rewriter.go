package epub

import (
	"archive/zip"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"slices"

	"github.com/gofrs/flock"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Extra field IDs that zip.Writer writes itself.
const (
	zip64ExtraID        = 0x0001
	extendedTimestampID = 0x5455
)

// RewriteRequest describes one archive rewrite.
type RewriteRequest struct {
	// Path is the archive on disk.
	Path string

	// Entry is the name of the entry to replace.
	Entry string

	// Content is the new, uncompressed content of Entry.
	Content []byte

	Backup BackupOptions
}

// RewriteResult reports what Rewrite did.
type RewriteResult struct {
	Path       string
	Entries    int
	BackupPath string // empty when no backup was written
}

// Rewrite replaces one entry of a zip archive.
//
// The new archive is written to "<path>.tmp" next to the original, copying
// every other entry raw and in order, and keeping the archive comment. When a
// backup is requested the original file is copied to its backup location, and
// only then is the temporary file renamed over the original. Any failure
// before the rename removes the temporary file and leaves the original as it
// was.
//
// An advisory lock is held on "<path>.lock" while the archive is read and
// replaced; the archive itself is never locked, so it stays readable on
// platforms where locks are mandatory. A lock held elsewhere fails with
// ErrArchiveLocked. The lock file is removed once the rewrite is over.
//
// The context is only checked before work starts; a rewrite in progress is
// always finished.
func Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	lockPath := LockPath(req.Path)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", req.Path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", req.Path, epubseries.ErrArchiveLocked)
	}
	defer func() {
		if lock.Unlock() == nil {
			_ = os.Remove(lockPath)
		}
	}()

	tmpPath := req.Path + epubseries.TempSuffix
	entries, err := writeArchive(req, tmpPath, info.Mode().Perm())
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}

	result := &RewriteResult{Path: req.Path, Entries: entries}

	if req.Backup.Enabled {
		backupPath := BackupPath(req.Path, req.Backup)
		if err := copyFile(req.Path, backupPath); err != nil {
			_ = os.Remove(tmpPath)
			return nil, fmt.Errorf("backup failed: %w", err)
		}
		result.BackupPath = backupPath
	}

	if err := os.Rename(tmpPath, req.Path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to replace %s: %w", req.Path, err)
	}
	return result, nil
}

// LockPath returns the lock file guarding rewrites of the archive at path.
func LockPath(path string) string {
	return path + epubseries.LockSuffix
}

// writeArchive copies the source archive to dst with req.Entry replaced and
// returns the number of entries written.
func writeArchive(req RewriteRequest, dst string, perm os.FileMode) (n int, err error) {
	zr, err := zip.OpenReader(req.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close temporary archive: %w", cerr)
		}
	}()

	zw := zip.NewWriter(out)
	if zr.Comment != "" {
		if err := zw.SetComment(zr.Comment); err != nil {
			return 0, fmt.Errorf("failed to keep archive comment: %w", err)
		}
	}

	replaced := false
	for _, f := range zr.File {
		if f.Name == req.Entry && !replaced {
			if err := writeReplacement(zw, f, req.Content); err != nil {
				return 0, err
			}
			replaced = true
		} else if err := zw.Copy(f); err != nil {
			return 0, fmt.Errorf("failed to copy entry %s: %w", f.Name, err)
		}
		n++
	}
	if !replaced {
		return 0, fmt.Errorf("entry %s not in archive: %w", req.Entry, epubseries.ErrPackageNotFound)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish archive: %w", err)
	}
	return n, nil
}

// writeReplacement writes content under the header of f. Name, method,
// times, comment and extra fields carry over; sizes and CRC are recomputed.
func writeReplacement(zw *zip.Writer, f *zip.File, content []byte) error {
	hdr := f.FileHeader
	hdr.Extra = stripExtra(hdr.Extra, zip64ExtraID, extendedTimestampID)
	if hdr.Method != zip.Store && hdr.Method != zip.Deflate {
		hdr.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(&hdr)
	if err != nil {
		return fmt.Errorf("failed to write entry %s: %w", f.Name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", f.Name, err)
	}
	return nil
}

// stripExtra removes the extra field blocks with the given header IDs, so
// zip.Writer does not end up writing them twice. Malformed extra data is
// returned unchanged.
func stripExtra(extra []byte, ids ...uint16) []byte {
	var out []byte
	rest := extra
	for len(rest) >= 4 {
		tag := binary.LittleEndian.Uint16(rest[0:2])
		size := int(binary.LittleEndian.Uint16(rest[2:4]))
		if len(rest) < 4+size {
			return extra
		}
		if !slices.Contains(ids, tag) {
			out = append(out, rest[:4+size]...)
		}
		rest = rest[4+size:]
	}
	if len(rest) != 0 {
		return extra
	}
	return out
}
