// Package localfiles walks a loose directory of media files, producing the
// same lazy asset.Asset sequence shape the takeout planner produces so both
// ingestion paths plug into the identical upload.Engine.
package localfiles

import (
	"io/fs"
	"iter"
	"path"
	"strings"
	"time"

	"github.com/immich-go/client/asset"
)

var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true,
	".mp4": true, ".m4v": true, ".webm": true, ".3gp": true, ".gif": true,
}

// IsMedia reports whether name's extension is one this walker will pick up.
func IsMedia(name string) bool {
	return mediaExtensions[strings.ToLower(path.Ext(name))]
}

// Walk yields one asset.Asset per media file under root, skipping
// directories and any file whose extension is not recognised. A file's
// FileCreatedAt and FileModifiedAt are both set from its filesystem
// modification time; fs.FS does not expose a separate creation time.
//
// A file that fails to open or read is skipped with its error reported via
// the second element of the yielded pair; the walk continues.
func Walk(root fs.FS, deviceID string) iter.Seq2[asset.Asset, error] {
	return func(yield func(asset.Asset, error) bool) {
		walkErr := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(asset.Asset{}, err) {
					return fs.SkipAll
				}
				return nil
			}
			if d.IsDir() || !IsMedia(d.Name()) {
				return nil
			}

			data, readErr := fs.ReadFile(root, p)
			if readErr != nil {
				if !yield(asset.Asset{}, readErr) {
					return fs.SkipAll
				}
				return nil
			}

			info, statErr := d.Info()
			mtime := time.Time{}
			if statErr == nil {
				mtime = info.ModTime().UTC()
			}

			a := asset.New(path.Base(p), deviceID, data)
			if !mtime.IsZero() {
				a.FileCreatedAt = mtime
				a.FileModifiedAt = mtime
			}
			a.Type = typeFromExtension(d.Name())

			if !yield(a, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if walkErr != nil && walkErr != fs.SkipAll {
			yield(asset.Asset{}, walkErr)
		}
	}
}

func typeFromExtension(name string) asset.Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp4", ".m4v", ".webm", ".3gp":
		return asset.TypeVideo
	case ".jpg", ".jpeg", ".png", ".webp", ".heic", ".gif":
		return asset.TypeImage
	default:
		return asset.TypeUnknown
	}
}

// Assets adapts Walk to the error-less iter.Seq[asset.Asset] shape the
// upload engine consumes, silently dropping any entry that failed to read.
func Assets(root fs.FS, deviceID string) iter.Seq[asset.Asset] {
	return func(yield func(asset.Asset) bool) {
		for a, err := range Walk(root, deviceID) {
			if err != nil {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}
