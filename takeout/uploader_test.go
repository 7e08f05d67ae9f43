package takeout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/immich-go/client/client"
)

// TestUploader_S6_FacadeAggregatesPerAlbum reproduces S6: three assets a, b,
// c uploaded where c fails, aggregated across albums X:[a,b] and Y:[b,c].
// Expected output: 4 MovedAsset entries total.
func TestUploader_S6_FacadeAggregatesPerAlbum(t *testing.T) {
	entries := []tarEntry{
		{name: "Takeout/Google Photos/X/a.jpg", body: []byte("a-bytes")},
		{name: "Takeout/Google Photos/X/b.jpg", body: []byte("b-bytes")},
		{name: "Takeout/Google Photos/Y/b.jpg", body: []byte("b-bytes")},
		{name: "Takeout/Google Photos/Y/c.jpg", body: []byte("c-bytes")},
	}
	src := buildArchive(t, entries)
	to, err := NewFromReader(src, PreferEdited)
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}

	var mu sync.Mutex
	createdAlbums := map[string]string{}
	nextAlbumID := 0
	nextAssetID := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/albums", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mu.Lock()
			defer mu.Unlock()
			type albumWire struct {
				ID        string `json:"id"`
				AlbumName string `json:"albumName"`
			}
			var out []albumWire
			for name, id := range createdAlbums {
				out = append(out, albumWire{ID: id, AlbumName: name})
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var req struct {
				AlbumName string `json:"albumName"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			nextAlbumID++
			id := fixedID(nextAlbumID)
			createdAlbums[req.AlbumName] = id
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": id, "albumName": req.AlbumName})
		}
	})
	mux.HandleFunc("/assets", func(w http.ResponseWriter, r *http.Request) {
		deviceAssetID := r.FormValue("deviceAssetId")
		if deviceAssetID == "c.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mu.Lock()
		nextAssetID++
		id := fixedID(1000 + nextAssetID)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": id, "status": "created", "deviceAssetId": deviceAssetID})
	})
	mux.HandleFunc("/albums/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		type result struct {
			ID      string `json:"id"`
			Success bool   `json:"success"`
		}
		out := make([]result, len(req.IDs))
		for i, id := range req.IDs {
			out[i] = result{ID: id, Success: true}
		}
		json.NewEncoder(w).Encode(out)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	cl, err := client.New(srv.URL, nil)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	u := NewUploader(to, "device-1")
	moved, err := u.Upload(context.Background(), cl, 2, nil, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(moved) != 4 {
		t.Fatalf("expected 4 MovedAsset entries, got %d: %+v", len(moved), moved)
	}

	failures := 0
	for _, m := range moved {
		if !m.Success {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 failed MovedAsset (for c), got %d", failures)
	}
}

func fixedID(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 8 {
		s = "0" + s
	}
	return s + "-0000-0000-0000-000000000000"
}
