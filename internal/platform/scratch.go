package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// StagedExt is the extension requested from the tool for staged output.
// The tool may still choose another one during the remux step, which is why
// lookup falls back to a prefix scan.
const StagedExt = ".mp4"

// Partial-download artifacts the tool leaves next to its output.
var skippedExtensions = []string{".part", ".ytdl"}

// EnsureDir creates the scratch directory if it doesn't exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, DefaultDirPermissions)
	}
	return nil
}

// StagedName returns a unique scratch file name for one session. The
// timestamp keeps names human-orderable; the uuid removes the collision risk
// of two sessions starting in the same millisecond.
func StagedName() string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), StagedExt)
}

// StagedPrefix strips the extension off a staged name, yielding the prefix
// all of the session's scratch artifacts share.
func StagedPrefix(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FindByPrefix locates the produced file for a session whose exact output
// path is missing because the tool picked its own extension. Partial
// artifacts are skipped.
func FindByPrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if isPartialArtifact(entry.Name()) {
			continue
		}
		return filepath.Join(dir, entry.Name()), nil
	}

	return "", fmt.Errorf("no staged file with prefix %q in %s", prefix, dir)
}

// RemoveByPrefix deletes every scratch artifact belonging to a session,
// including partial downloads. Best effort: the first error is returned but
// remaining entries are still attempted.
func RemoveByPrefix(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func isPartialArtifact(name string) bool {
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
