// Package album implements the album integrator: create-or-lookup by name,
// bulk asset assignment, and per-asset move accounting.
package album

import (
	"context"
	"net/http"

	"github.com/immich-go/client/client"
	"github.com/immich-go/client/id"
	"github.com/immich-go/client/immicherr"
	"github.com/immich-go/client/upload"
	"github.com/immich-go/client/internal/gen"
)

// MoveError classifies why an asset failed to attach to an album.
type MoveError int

const (
	MoveErrorNone MoveError = iota
	MoveErrorDuplicate
	MoveErrorNoPermission
	MoveErrorNotFound
	MoveErrorUnknown
	MoveErrorUploadFailed
)

func moveErrorFromString(s string) MoveError {
	switch s {
	case "duplicate":
		return MoveErrorDuplicate
	case "no_permission":
		return MoveErrorNoPermission
	case "not_found":
		return MoveErrorNotFound
	case "":
		return MoveErrorNone
	default:
		return MoveErrorUnknown
	}
}

// MovedAsset is the outcome of attaching one asset to one album.
// Invariant: Success implies Error == MoveErrorNone; !Success implies
// Error != MoveErrorNone.
type MovedAsset struct {
	AssetID id.ID
	Success bool
	Error   MoveError
}

// Failed synthesises a move failure that never reached the server (e.g. the
// asset never uploaded, or the album itself could not be created).
func Failed(assetID id.ID, reason MoveError) MovedAsset {
	if reason == MoveErrorNone {
		reason = MoveErrorUnknown
	}
	return MovedAsset{AssetID: assetID, Success: false, Error: reason}
}

// Album is a server-side album, identified by its server id.
type Album struct {
	ID   id.ID
	Name string
}

type albumWire struct {
	ID        string `json:"id"`
	AlbumName string `json:"albumName"`
}

// GetOrCreate finds the first album whose name matches exactly, or creates
// one if none does. Name collisions on the server are tolerated: the first
// hit wins.
func GetOrCreate(ctx context.Context, cl *client.Client, name string) (Album, error) {
	var existing []albumWire
	status, err := cl.GetJSON(ctx, "/albums", &existing)
	if err != nil {
		return Album{}, err
	}
	if status != http.StatusOK {
		return Album{}, &immicherr.StatusError{Code: status}
	}

	for _, a := range existing {
		if a.AlbumName == name {
			return Album{ID: id.ID(a.ID), Name: a.AlbumName}, nil
		}
	}

	var created albumWire
	status, err = cl.PostJSON(ctx, "/albums", albumWire{AlbumName: name}, &created)
	if err != nil {
		return Album{}, err
	}
	if status != http.StatusCreated {
		return Album{}, &immicherr.StatusError{Code: status}
	}
	return Album{ID: id.ID(created.ID), Name: created.AlbumName}, nil
}

type addAssetsRequest struct {
	IDs []string `json:"ids"`
}

type addAssetsResultWire struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AddAssets attaches ids to al. al.ID must pass the shape check before any
// network I/O happens.
func (al Album) AddAssets(ctx context.Context, cl *client.Client, ids []id.ID) ([]MovedAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if !al.ID.Safe() {
		return nil, immicherr.ErrInvalidURL
	}

	req := addAssetsRequest{IDs: make([]string, len(ids))}
	for i, assetID := range ids {
		req.IDs[i] = assetID.String()
	}

	var wire []addAssetsResultWire
	status, err := cl.PutJSON(ctx, "/albums/"+al.ID.String()+"/assets", req, &wire)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &immicherr.StatusError{Code: status}
	}

	out := make([]MovedAsset, len(wire))
	for i, r := range wire {
		moveErr := moveErrorFromString(r.Error)
		if r.Success {
			moveErr = MoveErrorNone
		} else if moveErr == MoveErrorNone {
			moveErr = MoveErrorUnknown
		}
		out[i] = MovedAsset{
			AssetID: id.ID(r.ID),
			Success: r.Success,
			Error:   moveErr,
		}
	}
	return out, nil
}

// ComposeUploadAndAlbum partitions uploaded into successful and failed
// entries, attaches the successful ones to al, then extends the result with
// one synthesised UploadFailed MovedAsset per failure. The final slice has
// exactly one entry per input Uploaded.
func ComposeUploadAndAlbum(ctx context.Context, cl *client.Client, al Album, uploaded []upload.Uploaded) ([]MovedAsset, error) {
	successful := gen.Filter(uploaded, func(u upload.Uploaded) bool { return u.Status != upload.StatusFailure })
	failed := gen.Filter(uploaded, func(u upload.Uploaded) bool { return u.Status == upload.StatusFailure })

	ids := make([]id.ID, len(successful))
	for i, u := range successful {
		ids[i] = u.RemoteID
	}

	moved, err := al.AddAssets(ctx, cl, ids)
	if err != nil {
		return nil, err
	}
	for range failed {
		moved = append(moved, Failed("", MoveErrorUploadFailed))
	}
	return moved, nil
}
