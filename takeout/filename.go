package takeout

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind is the classification of one archive entry.
type Kind int

const (
	KindOther Kind = iota
	KindMetadata
	KindOriginal
	KindEdited
)

var mediaExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "webp": true, "heic": true,
	"mp4": true, "m4v": true, "webm": true, "3gp": true, "gif": true,
}

var (
	errFileName = errors.New("takeout: entry has no extension")
	errFilePath = errors.New("takeout: entry path is missing an album or file name component")
)

// filename is the decomposed form of one tar entry path: which album it
// belongs to, its canonical (deduplicated, suffix-stripped) name, and its
// kind.
type filename struct {
	album string
	name  string
	kind  Kind
}

// parseFilename splits entryPath into (album, canonical name, kind). album
// is the entry's immediate parent directory's final path component.
func parseFilename(entryPath string) (filename, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(entryPath), "."))
	if ext == "" {
		return filename{}, fmt.Errorf("%w: %q", errFileName, entryPath)
	}

	dir, base := path.Split(entryPath)
	if base == "" {
		return filename{}, fmt.Errorf("%w: %q", errFilePath, entryPath)
	}
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return filename{}, fmt.Errorf("%w: %q", errFilePath, entryPath)
	}
	album := path.Base(dir)

	var kind Kind
	switch {
	case ext == "json":
		kind = KindMetadata
	case mediaExtensions[ext]:
		if strings.Contains(strings.ToLower(base), "edited") {
			kind = KindEdited
		} else {
			kind = KindOriginal
		}
	default:
		kind = KindOther
	}

	name := base
	name = strings.ReplaceAll(name, "-edited", "")
	name = strings.ReplaceAll(name, ".supplemental-metadata", "")
	name = strings.ReplaceAll(name, ".json", "")
	name = normalizeDuplicates(name)

	return filename{album: album, name: name, kind: kind}, nil
}

// normalizeDuplicates moves a trailing "(<digits>)" duplicate marker from
// after the extension to directly before it, e.g.
// "IMG_20131023_123651.jpg(1)" -> "IMG_20131023_123651(1).jpg". Already
// normalised names, or names with no such marker, are returned unchanged.
// If the part before the marker has no extension to reinsert it before, the
// marker is dropped rather than reattached. A name whose marker directly
// follows another ")" is returned unchanged.
// Idempotent: normalizeDuplicates(normalizeDuplicates(s)) == normalizeDuplicates(s).
func normalizeDuplicates(name string) string {
	if !strings.HasSuffix(name, ")") {
		return name
	}
	idx := strings.LastIndex(name, "(")
	if idx < 0 {
		return name
	}
	digits := name[idx+1 : len(name)-1]
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return name
	}
	suffix := name[idx:]
	head := name[:idx]
	if strings.HasSuffix(head, ")") {
		return name
	}

	dotIdx := strings.LastIndex(head, ".")
	if dotIdx < 0 {
		return head
	}
	return head[:dotIdx] + suffix + head[dotIdx:]
}
