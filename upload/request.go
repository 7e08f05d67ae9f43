package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/id"
	"github.com/immich-go/client/immicherr"
)

type uploadResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	DeviceAssetID string `json:"deviceAssetId"`
}

// Upload submits a single asset and classifies the response. It always
// returns a usable Uploaded value, even on error: a transport failure or any
// status other than 200 or 201 yields a StatusFailure entry so the caller (normally the
// engine) can keep treating the item as completed while still observing the
// error for logging.
func Upload(ctx context.Context, cl *client.Client, a *asset.Asset) (Uploaded, error) {
	contentType, body, err := buildMultipart(a)
	if err != nil {
		return Failure(a.DeviceAssetID), err
	}

	resp, err := cl.PostBytes(ctx, "/assets", contentType, map[string]string{
		"x-immich-checksum": a.Checksum(),
	}, body)
	if err != nil {
		return Failure(a.DeviceAssetID), err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(a.DeviceAssetID), err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Failure(a.DeviceAssetID), &immicherr.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var wire uploadResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Failure(a.DeviceAssetID), fmt.Errorf("%w: %v", immicherr.ErrInvalidResponse, err)
	}

	remoteID, err := id.Parse(wire.ID)
	if err != nil {
		return Failure(a.DeviceAssetID), err
	}

	deviceAssetID := wire.DeviceAssetID
	if deviceAssetID == "" {
		deviceAssetID = a.DeviceAssetID
	}

	status := StatusDuplicate
	if wire.Status == "created" {
		status = StatusCreated
	}

	a.RemoteID = remoteID
	a.RemoteStatus = asset.RemoteStatusPresent

	return Uploaded{RemoteID: remoteID, DeviceAssetID: deviceAssetID, Status: status}, nil
}

func buildMultipart(a *asset.Asset) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"deviceAssetId", a.DeviceAssetID},
		{"deviceId", a.DeviceID},
		{"fileCreatedAt", asset.FormatTime(a.FileCreatedAt)},
		{"fileModifiedAt", asset.FormatTime(a.FileModifiedAt)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return "", nil, err
		}
	}

	part, err := w.CreateFormFile("assetData", a.DeviceAssetID)
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(a.Bytes); err != nil {
		return "", nil, err
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
