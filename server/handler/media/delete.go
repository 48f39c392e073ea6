package media

import (
	"net/http"

	"github.com/indieinfra/photobin/server/handler/common"
	"github.com/indieinfra/photobin/server/resp"
	"github.com/indieinfra/photobin/server/state"
)

type deleteResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// HandleDelete removes every variant blob and the metadata record for an id.
func HandleDelete(st *state.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := st.Svc.Delete(r.Context(), id); err != nil {
			common.LogAndWriteError(w, r, "delete media", err)
			return
		}

		resp.WriteOK(w, deleteResponse{OK: true, ID: id})
	}
}
