package album_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immich-go/client/album"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/id"
	"github.com/immich-go/client/upload"
)

func TestGetOrCreate_FindsExistingByName(t *testing.T) {
	existingID := uuid.NewString()
	var createCalled bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/albums":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"id": existingID, "albumName": "Vacation"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/albums":
			createCalled = true
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	al, err := album.GetOrCreate(context.Background(), cl, "Vacation")
	require.NoError(t, err)
	assert.Equal(t, existingID, al.ID.String())
	assert.False(t, createCalled)
}

func TestGetOrCreate_CreatesOnMiss(t *testing.T) {
	newID := uuid.NewString()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode([]map[string]string{})
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": newID, "albumName": "New Album"})
		}
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	al, err := album.GetOrCreate(context.Background(), cl, "New Album")
	require.NoError(t, err)
	assert.Equal(t, newID, al.ID.String())
}

func TestAddAssets_RejectsUnsafeID(t *testing.T) {
	cl, err := client.New("http://example.invalid", client.APIKeyAuth("k"))
	require.NoError(t, err)

	al := album.Album{ID: "not-a-valid-id", Name: "x"}
	_, err = al.AddAssets(context.Background(), cl, []id.ID{id.ID(uuid.NewString())})
	assert.Error(t, err)
}

func TestComposeUploadAndAlbum_SynthesisesUploadFailed(t *testing.T) {
	created := uuid.NewString()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": created, "success": true, "error": ""},
		})
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.APIKeyAuth("k"))
	require.NoError(t, err)

	al := album.Album{ID: id.ID(uuid.NewString()), Name: "X"}
	uploaded := []upload.Uploaded{
		{RemoteID: id.ID(created), DeviceAssetID: "a.jpg", Status: upload.StatusCreated},
		upload.Failure("c.jpg"),
	}

	moved, err := album.ComposeUploadAndAlbum(context.Background(), cl, al, uploaded)
	require.NoError(t, err)
	require.Len(t, moved, 2)

	var failures int
	for _, m := range moved {
		if !m.Success {
			failures++
			assert.Equal(t, album.MoveErrorUploadFailed, m.Error)
		}
	}
	assert.Equal(t, 1, failures)
}
