package takeout

import (
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// sidecarWire mirrors the subset of a Google Photos supplemental-metadata
// JSON file this package cares about: the photo's taken time, expressed as
// a string-encoded Unix timestamp.
type sidecarWire struct {
	PhotoTakenTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"photoTakenTime"`
}

// parseSidecar reads one supplemental-metadata JSON document and extracts
// the photo's recorded creation time.
func parseSidecar(r io.Reader) (time.Time, error) {
	var w sidecarWire
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return time.Time{}, err
	}
	secs, err := strconv.ParseInt(w.PhotoTakenTime.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}
