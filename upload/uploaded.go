// Package upload builds single-asset upload requests, classifies the
// server's response, and drives a bounded parallel engine across many
// assets.
package upload

import "github.com/immich-go/client/id"

// Status is the server's verdict on one uploaded asset.
type Status int

const (
	StatusCreated Status = iota
	StatusDuplicate
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusDuplicate:
		return "Duplicate"
	default:
		return "Failure"
	}
}

// Uploaded records the outcome of one upload attempt. Failure entries carry
// an empty RemoteID and the originating DeviceAssetID.
type Uploaded struct {
	RemoteID      id.ID
	DeviceAssetID string
	Status        Status
}

// Failure builds the Uploaded value for an asset that could not be
// uploaded, preserving the device id it was submitted under.
func Failure(deviceAssetID string) Uploaded {
	return Uploaded{DeviceAssetID: deviceAssetID, Status: StatusFailure}
}
