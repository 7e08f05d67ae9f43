// Package asset holds the in-memory representation of a single media item
// on its way to the server: bytes, device identity, timestamps, checksum
// and whatever the server has reported back about it.
package asset

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/immich-go/client/id"
)

// Type is the server's coarse classification of an asset.
type Type int

const (
	TypeUnknown Type = iota
	TypeImage
	TypeVideo
	TypeAudio
	TypeOther
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "IMAGE"
	case TypeVideo:
		return "VIDEO"
	case TypeAudio:
		return "AUDIO"
	case TypeOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// ParseType maps a server-supplied type string onto Type, case-insensitively.
func ParseType(s string) Type {
	switch strings.ToUpper(s) {
	case "IMAGE":
		return TypeImage
	case "VIDEO":
		return TypeVideo
	case "AUDIO":
		return TypeAudio
	case "OTHER":
		return TypeOther
	default:
		return TypeUnknown
	}
}

// RemoteStatus tracks what, if anything, is known about an asset's presence
// on the server.
type RemoteStatus int

const (
	RemoteStatusUnknown RemoteStatus = iota
	RemoteStatusPresent
	RemoteStatusAbsent
)

// DefaultTime is used for file_created_at/file_modified_at when no better
// timestamp is known.
var DefaultTime = time.Date(1990, 10, 3, 12, 0, 0, 0, time.UTC)

const wireLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t per the wire timestamp format: seconds precision,
// literal zeroed milliseconds, literal Z, always UTC. t is truncated to the
// second first since "2006-01-02T15:04:05.000Z" is a real fractional-second
// directive in Go's time layout language, not literal text — without the
// truncation a timestamp with non-zero nanoseconds would serialize with its
// actual sub-second value instead of a literal ".000Z".
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(wireLayout)
}

// Asset is one media item, self-contained once materialised: it owns its
// bytes and may be sent across goroutines.
type Asset struct {
	DeviceAssetID  string
	DeviceID       string
	FileCreatedAt  time.Time
	FileModifiedAt time.Time
	Type           Type
	Bytes          []byte
	RemoteID       id.ID
	RemoteStatus   RemoteStatus
}

// New builds an Asset with both timestamps defaulted to DefaultTime; callers
// set FileCreatedAt/FileModifiedAt explicitly when a real timestamp exists.
func New(deviceAssetID, deviceID string, data []byte) Asset {
	return Asset{
		DeviceAssetID:  deviceAssetID,
		DeviceID:       deviceID,
		FileCreatedAt:  DefaultTime,
		FileModifiedAt: DefaultTime,
		Bytes:          data,
	}
}

// Checksum returns the lowercase SHA-1 hex digest of Bytes.
func (a *Asset) Checksum() string {
	sum := sha1.Sum(a.Bytes)
	return hex.EncodeToString(sum[:])
}
