package upload_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/id"
	"github.com/immich-go/client/upload"
)

func TestUpload_Success(t *testing.T) {
	remoteID := uuid.NewString()

	var gotChecksum, gotContentType string
	var gotFields map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotChecksum = r.Header.Get("x-immich-checksum")
		gotContentType = r.Header.Get("Content-Type")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{
			"deviceAssetId":  r.FormValue("deviceAssetId"),
			"deviceId":       r.FormValue("deviceId"),
			"fileCreatedAt":  r.FormValue("fileCreatedAt"),
			"fileModifiedAt": r.FormValue("fileModifiedAt"),
		}
		f, _, err := r.FormFile("assetData")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "bytes-of-a-photo", string(data))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":     remoteID,
			"status": "created",
		})
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	a := asset.New("garden.jpg", "dev", []byte("bytes-of-a-photo"))
	a.FileCreatedAt = time.Date(2025, 1, 28, 5, 42, 36, 0, time.UTC)
	a.FileModifiedAt = a.FileCreatedAt

	u, err := upload.Upload(context.Background(), cl, &a)
	require.NoError(t, err)
	assert.Equal(t, upload.StatusCreated, u.Status)
	assert.Equal(t, "garden.jpg", u.DeviceAssetID)
	assert.Equal(t, remoteID, u.RemoteID.String())

	assert.NotEmpty(t, gotChecksum)
	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, "garden.jpg", gotFields["deviceAssetId"])
	assert.Equal(t, "dev", gotFields["deviceId"])
	assert.Equal(t, "2025-01-28T05:42:36.000Z", gotFields["fileCreatedAt"])
}

func TestUpload_ServerErrorYieldsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	a := asset.New("bad.jpg", "dev", []byte("x"))
	u, err := upload.Upload(context.Background(), cl, &a)
	assert.Error(t, err)
	assert.Equal(t, upload.StatusFailure, u.Status)
	assert.Equal(t, "bad.jpg", u.DeviceAssetID)
	assert.Empty(t, u.RemoteID)
}

func TestBulkCheck_UpdatesRemoteStatus(t *testing.T) {
	id1 := uuid.NewString()
	id2 := uuid.NewString()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"id": id1, "action": "accept"},
				{"id": id2, "action": "reject"},
			},
		})
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	a1 := asset.New("a.jpg", "dev", nil)
	a1.RemoteID = id.ID(id1)
	a2 := asset.New("b.jpg", "dev", nil)
	a2.RemoteID = id.ID(id2)

	err = upload.BulkCheck(context.Background(), cl, []*asset.Asset{&a1, &a2})
	require.NoError(t, err)
	assert.Equal(t, asset.RemoteStatusAbsent, a1.RemoteStatus)
	assert.Equal(t, asset.RemoteStatusPresent, a2.RemoteStatus)
}

func TestBulkCheck_MismatchedLengthIsInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []map[string]string{}})
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	a := asset.New("a.jpg", "dev", nil)
	err = upload.BulkCheck(context.Background(), cl, []*asset.Asset{&a})
	assert.Error(t, err)
}
