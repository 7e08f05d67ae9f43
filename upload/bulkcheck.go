package upload

import (
	"context"
	"net/http"

	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/immicherr"
)

type bulkCheckItem struct {
	ID       string `json:"id"`
	Checksum string `json:"checksum"`
}

type bulkCheckResult struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

type bulkCheckResponse struct {
	Results []bulkCheckResult `json:"results"`
}

// BulkCheck asks the server which of assets it already has, updating each
// asset's RemoteStatus in place. Ids in the response that don't match the
// corresponding request id are ignored, matching the observed behaviour of
// the original client (see DESIGN.md Open Question 2).
func BulkCheck(ctx context.Context, cl *client.Client, assets []*asset.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	req := make([]bulkCheckItem, len(assets))
	for i, a := range assets {
		req[i] = bulkCheckItem{ID: a.RemoteID.String(), Checksum: a.Checksum()}
	}

	var resp bulkCheckResponse
	status, err := cl.PostJSON(ctx, "/assets/bulk-upload-check", req, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &immicherr.StatusError{Code: status}
	}
	if len(resp.Results) != len(assets) {
		return immicherr.ErrInvalidResponse
	}

	for i, r := range resp.Results {
		a := assets[i]
		if a.RemoteID.String() != r.ID {
			continue
		}
		switch r.Action {
		case "accept":
			a.RemoteStatus = asset.RemoteStatusAbsent
		case "reject":
			a.RemoteStatus = asset.RemoteStatusPresent
		}
	}
	return nil
}
