package retry

import (
	"errors"
	"syscall"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// LockClassifier treats a busy or locked archive as transient. Every other
// error, including a malformed book, is fatal.
type LockClassifier struct{}

// NewLockClassifier creates a LockClassifier.
func NewLockClassifier() *LockClassifier {
	return &LockClassifier{}
}

var _ epubseries.ErrorClassifier = (*LockClassifier)(nil)

// IsTransient reports whether err is worth another attempt.
func (c *LockClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, epubseries.ErrArchiveLocked) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return isTransientErrno(errno)
	}
	return false
}

// isTransientErrno covers the errors returned while another process has the
// file open for writing or is replacing it.
func isTransientErrno(errno syscall.Errno) bool {
	switch errno {
	case syscall.EBUSY, syscall.ETXTBSY, syscall.EAGAIN:
		return true
	default:
		return false
	}
}
