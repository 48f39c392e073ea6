package media

import (
	"io"
	"net/http"

	"github.com/indieinfra/photobin/server/handler/common"
	"github.com/indieinfra/photobin/server/resp"
	"github.com/indieinfra/photobin/server/state"
	"github.com/indieinfra/photobin/server/util"
	"github.com/indieinfra/photobin/storage/meta"
)

type byItemResponse struct {
	ItemID string         `json:"itemId"`
	Count  int            `json:"count"`
	Media  []*meta.Record `json:"media"`
}

// HandleGetVariant streams one stored variant of a media id.
func HandleGetVariant(st *state.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		variant := r.URL.Query().Get("variant")

		rc, contentType, err := st.Svc.OpenVariant(r.Context(), id, variant)
		if err != nil {
			common.LogAndWriteError(w, r, "get variant", err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType)
		if _, err := io.Copy(w, rc); err != nil {
			// Headers are gone; all we can do is log the broken stream.
			util.FromContext(r.Context()).Errorw("failed to stream variant", "id", id, "error", err)
		}
	}
}

// HandleListByItem returns every record grouped under one item id, in
// insertion order.
func HandleListByItem(st *state.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.PathValue("itemId")

		records, err := st.Svc.ListByItem(r.Context(), itemID)
		if err != nil {
			common.LogAndWriteError(w, r, "list by item", err)
			return
		}

		resp.WriteOK(w, byItemResponse{
			ItemID: itemID,
			Count:  len(records),
			Media:  records,
		})
	}
}
