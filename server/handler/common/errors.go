package common

import (
	"errors"
	"net/http"

	"github.com/indieinfra/photobin/media"
	"github.com/indieinfra/photobin/server/resp"
	"github.com/indieinfra/photobin/server/util"
	"github.com/indieinfra/photobin/storage/meta"
)

// LogAndWriteError maps known error conditions to client responses, once.
// Validation failures carry their reason to the caller; anything internal
// is logged in full and surfaced as a generic 500.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())

	var inputErr *media.InputError
	switch {
	case errors.As(err, &inputErr):
		resp.WriteInvalidRequest(w, inputErr.Reason)
	case errors.Is(err, meta.ErrNotFound):
		resp.WriteNotFound(w, "Not found")
	default:
		rl.Errorw("media operation failed", "op", op, "error", err)
		resp.WriteInternalServerError(w, "internal error")
	}
}
