// Package takeout implements the streaming two-pass planner over a
// Google-Takeout-style gzip-compressed tar archive, and the facade that
// couples it to the upload engine and album integrator.
package takeout

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/immicherr"
)

// HandleEdited selects which of an original/edited pair gets emitted by the
// second pass when both exist.
type HandleEdited int

const (
	// PreferEdited is the default: emit the edited variant when present,
	// fall back to the original otherwise.
	PreferEdited HandleEdited = iota
	// UseBoth emits both variants whenever both are present.
	UseBoth
	// PreferOriginal always emits the original, ignoring any edited variant.
	PreferOriginal
)

func (p HandleEdited) useEdited() bool   { return p != PreferOriginal }
func (p HandleEdited) useOriginal() bool { return p != PreferEdited }

// ErrNoPhoto is returned when a record's media bytes cannot be read while
// converting it to an asset.Asset.
var ErrNoPhoto = errors.New("takeout: record has no readable photo data")

// Takeout is an opened archive: the completed first-pass MediaStore plus a
// seekable handle onto the underlying bytes, rewound and reopened for each
// second-pass scan.
type Takeout struct {
	src    io.ReadSeeker
	closer io.Closer
	policy HandleEdited
	store  *MediaStore
}

// Open opens the gzip tar archive at path using the default PreferEdited
// policy.
func Open(path string) (*Takeout, error) {
	return OpenWithPolicy(path, PreferEdited)
}

// OpenWithPolicy opens the gzip tar archive at path and performs the first
// pass immediately.
func OpenWithPolicy(path string, policy HandleEdited) (*Takeout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", immicherr.ErrInvalidArchive, err)
	}
	t, err := NewFromReader(f, policy)
	if err != nil {
		f.Close()
		return nil, err
	}
	t.closer = f
	return t, nil
}

// NewFromReader builds a Takeout from an already-open seekable archive
// source, useful for tests backed by an in-memory buffer.
func NewFromReader(src io.ReadSeeker, policy HandleEdited) (*Takeout, error) {
	t := &Takeout{src: src, policy: policy}
	if err := t.firstScan(); err != nil {
		return nil, err
	}
	return t, nil
}

// Close releases the underlying file, if Open opened one.
func (t *Takeout) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// Len reports the number of distinct canonical names found by the first
// pass.
func (t *Takeout) Len() int { return t.store.Len() }

func (t *Takeout) openTarStream() (*gzip.Reader, *tar.Reader, error) {
	if _, err := t.src.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", immicherr.ErrInvalidArchive, err)
	}
	gz, err := gzip.NewReader(t.src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", immicherr.ErrInvalidArchive, err)
	}
	return gz, tar.NewReader(gz), nil
}

// firstScan performs pass 1: build the MediaStore by classifying every
// entry. Per-entry parse errors are ignored; only stream I/O errors abort.
func (t *Takeout) firstScan() error {
	gz, tr, err := t.openTarStream()
	if err != nil {
		return err
	}
	defer gz.Close()

	store := newMediaStore()
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", immicherr.ErrInvalidArchive, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		fn, err := parseFilename(hdr.Name)
		if err != nil {
			continue
		}
		switch fn.kind {
		case KindMetadata:
			taken, err := parseSidecar(tr)
			if err != nil {
				continue
			}
			store.addMetadata(fn.name, fn.album, taken)
		case KindEdited:
			if t.policy.useEdited() {
				store.addEdited(fn.name, fn.album)
			}
		case KindOriginal:
			store.addOriginal(fn.name, fn.album)
		}
	}
	t.store = store
	return nil
}

// Albums returns the planner's album aggregation: album name to the
// (possibly duplicated) device asset ids referencing it, in first-seen
// order.
func (t *Takeout) Albums() map[string][]string {
	out := make(map[string][]string)
	for _, name := range t.store.order {
		m := t.store.byName[name]
		for _, album := range m.Albums {
			out[album] = append(out[album], name)
		}
	}
	return out
}

// Records opens a fresh second-pass stream over the archive.
func (t *Takeout) Records() (*RecordIter, error) {
	gz, tr, err := t.openTarStream()
	if err != nil {
		return nil, err
	}
	return &RecordIter{gz: gz, tr: tr, store: t.store, policy: t.policy}, nil
}

// RecordIter is the lazy, single-threaded, second-pass iterator over the
// archive's media entries. It borrows the MediaStore by reference and the
// tar stream positionally; a Record returned by Next is only valid until
// the next call to Next.
type RecordIter struct {
	gz     *gzip.Reader
	tr     *tar.Reader
	store  *MediaStore
	policy HandleEdited
}

// Close releases the gzip stream opened for this pass.
func (it *RecordIter) Close() error { return it.gz.Close() }

// Next advances the tar stream until it can emit a record, returns false
// when the archive is exhausted, or returns an error on stream I/O failure.
func (it *RecordIter) Next() (*Record, bool, error) {
	for {
		hdr, err := it.tr.Next()
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", immicherr.ErrInvalidArchive, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		fn, err := parseFilename(hdr.Name)
		if err != nil {
			continue
		}

		var emit bool
		switch fn.kind {
		case KindOriginal:
			media, ok := it.store.get(fn.name)
			emit = !ok || !media.HasEdited || it.policy.useOriginal()
		case KindEdited:
			emit = it.policy.useEdited()
		default:
			emit = false
		}
		if !emit {
			continue
		}

		media, ok := it.store.get(fn.name)
		if !ok {
			media = &Media{Name: fn.name}
		}
		return &Record{
			tr:      it.tr,
			name:    fn.name,
			kind:    fn.kind,
			modTime: hdr.ModTime,
			media:   media,
		}, true, nil
	}
}

// Record is a lazy reference to one media entry in the archive, borrowing
// its aggregated metadata from the MediaStore. It must be consumed (Data or
// Read) before the owning RecordIter's Next is called again.
type Record struct {
	tr      *tar.Reader
	name    string
	kind    Kind
	modTime time.Time
	media   *Media
}

// Name returns the record's canonical name.
func (r *Record) Name() string { return r.name }

// DateTaken returns the sidecar-derived UTC capture time, if one was found.
func (r *Record) DateTaken() (time.Time, bool) {
	if r.media.DateTaken.IsZero() {
		return time.Time{}, false
	}
	return r.media.DateTaken, true
}

// DateModified returns max(capture time, tar entry mtime) when a capture
// time exists, or false otherwise.
func (r *Record) DateModified() (time.Time, bool) {
	dt, ok := r.DateTaken()
	if !ok {
		return time.Time{}, false
	}
	if r.modTime.After(dt) {
		return r.modTime.UTC(), true
	}
	return dt, true
}

// Original reports whether any original variant of this photo was seen
// anywhere in the archive.
func (r *Record) Original() bool { return r.media.HasOriginal }

// Edited reports whether any edited variant of this photo was seen
// anywhere in the archive.
func (r *Record) Edited() bool { return r.media.HasEdited }

// Albums returns every album directory that referenced this photo,
// duplicates included.
func (r *Record) Albums() []string { return r.media.Albums }

// Data eagerly reads the remainder of this entry's bytes. Must be called
// before the owning iterator advances.
func (r *Record) Data() ([]byte, error) {
	return io.ReadAll(r.tr)
}

// Read implements io.Reader directly against the underlying tar entry, for
// callers that want to stream rather than buffer.
func (r *Record) Read(p []byte) (int, error) {
	return r.tr.Read(p)
}

// ToAsset converts the record into an asset.Asset ready for upload.
func (r *Record) ToAsset(deviceID string) (asset.Asset, error) {
	data, err := r.Data()
	if err != nil {
		return asset.Asset{}, fmt.Errorf("%w: %w: %v", immicherr.ErrInvalidArchive, ErrNoPhoto, err)
	}
	a := asset.New(r.Name(), deviceID, data)
	if dt, ok := r.DateTaken(); ok {
		a.FileCreatedAt = dt
	}
	if dm, ok := r.DateModified(); ok {
		a.FileModifiedAt = dm
	} else {
		a.FileModifiedAt = a.FileCreatedAt
	}
	return a, nil
}
