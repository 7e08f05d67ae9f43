package takeout

import (
	"context"
	"iter"

	"github.com/immich-go/client/album"
	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/id"
	"github.com/immich-go/client/upload"
)

// ImportAlbumName is the fixed catch-all album every takeout upload also
// lands in, spelling preserved for backward compatibility with prior runs.
const ImportAlbumName = "Google Takout Import"

// Uploader couples an opened archive to a device identity, exposing the
// filtered asset stream and the full upload-then-reproject-albums facade.
type Uploader struct {
	t        *Takeout
	deviceID string
	Logger   upload.Logger
}

// NewUploader wraps an opened Takeout for uploading under deviceID.
func NewUploader(t *Takeout, deviceID string) *Uploader {
	return &Uploader{t: t, deviceID: deviceID}
}

// Len returns the number of distinct media items the archive contains.
func (u *Uploader) Len() int { return u.t.Len() }

// Close releases the underlying archive.
func (u *Uploader) Close() error { return u.t.Close() }

// FilterAssets returns a lazy stream of assets converted from every record
// for which filter returns true (a nil filter accepts every record).
// A record that fails to convert (unreadable data) is skipped; a stream I/O
// error ends the sequence early rather than panicking.
func (u *Uploader) FilterAssets(filter func(*Record) bool) (iter.Seq[asset.Asset], error) {
	it, err := u.t.Records()
	if err != nil {
		return nil, err
	}
	return func(yield func(asset.Asset) bool) {
		defer it.Close()
		for {
			rec, ok, err := it.Next()
			if err != nil || !ok {
				return
			}
			if filter != nil && !filter(rec) {
				continue
			}
			a, err := rec.ToAsset(u.deviceID)
			if err != nil {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}, nil
}

func (u *Uploader) warn(format string, args ...any) {
	if u.Logger != nil {
		u.Logger.Warning(format, args...)
	}
}

// Upload runs the full takeout facade:
//  1. build the filtered lazy asset stream;
//  2. create the fixed import album (failure here aborts the run);
//  3. run the upload engine, forwarding every result to progress;
//  4. add every successfully uploaded asset to the import album;
//  5. build a device id -> remote id lookup from the non-failure results;
//  6. for every album the archive recorded, resolve its device ids through
//     the lookup, create-or-get the album by name and add the resolved
//     assets, synthesising a failed MovedAsset for anything that could not
//     be resolved or attached.
//
// The returned slice is the concatenation of step 6's per-album results
// only; the import album's own attach outcome is not returned, and a failure
// to attach to it is only logged.
func (u *Uploader) Upload(ctx context.Context, cl *client.Client, concurrency int, progress chan<- upload.Uploaded, filter func(*Record) bool) ([]album.MovedAsset, error) {
	assets, err := u.FilterAssets(filter)
	if err != nil {
		return nil, err
	}

	importAlbum, err := album.GetOrCreate(ctx, cl, ImportAlbumName)
	if err != nil {
		return nil, err
	}

	engine := upload.NewEngine(concurrency)
	engine.Logger = u.Logger
	uploaded, err := engine.Run(ctx, cl, assets, progress)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]id.ID, len(uploaded))
	var importIDs []id.ID
	for _, up := range uploaded {
		if up.Status == upload.StatusFailure {
			continue
		}
		lookup[up.DeviceAssetID] = up.RemoteID
		importIDs = append(importIDs, up.RemoteID)
	}
	if _, err := importAlbum.AddAssets(ctx, cl, importIDs); err != nil {
		u.warn("adding assets to %q failed: %v", ImportAlbumName, err)
	}

	var moved []album.MovedAsset
	for albumName, deviceIDs := range u.t.Albums() {
		seen := make(map[string]bool, len(deviceIDs))
		var resolved []id.ID
		var unresolved int
		for _, devID := range deviceIDs {
			if seen[devID] {
				continue
			}
			seen[devID] = true
			if remoteID, ok := lookup[devID]; ok {
				resolved = append(resolved, remoteID)
			} else {
				unresolved++
			}
		}

		al, err := album.GetOrCreate(ctx, cl, albumName)
		if err != nil {
			u.warn("creating album %q failed: %v", albumName, err)
			for _, rid := range resolved {
				moved = append(moved, album.Failed(rid, album.MoveErrorUnknown))
			}
			for i := 0; i < unresolved; i++ {
				moved = append(moved, album.Failed("", album.MoveErrorUploadFailed))
			}
			continue
		}

		result, err := al.AddAssets(ctx, cl, resolved)
		if err != nil {
			u.warn("adding assets to album %q failed: %v", albumName, err)
			for _, rid := range resolved {
				moved = append(moved, album.Failed(rid, album.MoveErrorUnknown))
			}
		} else {
			moved = append(moved, result...)
		}
		for i := 0; i < unresolved; i++ {
			moved = append(moved, album.Failed("", album.MoveErrorUploadFailed))
		}
	}

	return moved, nil
}
