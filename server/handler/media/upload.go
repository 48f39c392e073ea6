package media

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/indieinfra/photobin/media"
	"github.com/indieinfra/photobin/server/handler/common"
	"github.com/indieinfra/photobin/server/resp"
	"github.com/indieinfra/photobin/server/state"
	"github.com/indieinfra/photobin/server/util"
)

type uploadResponse struct {
	ID       string            `json:"id"`
	ItemID   string            `json:"itemId"`
	Enhanced bool              `json:"enhanced"`
	URLs     media.VariantURLs `json:"urls"`
	Width    *int              `json:"width"`
	Height   *int              `json:"height"`
	Size     int64             `json:"size"`
}

// HandleUpload accepts one multipart photo upload and runs it through the
// ingestion pipeline.
func HandleUpload(st *state.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := util.RequireValidUploadContentType(w, r); !ok {
			return
		}

		maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
		// Leave headroom above the file cap for the other form fields.
		maxBody := int64(st.Cfg.Server.Limits.MaxUploadSize) + (64 << 10)

		pm, err := util.ParseMultipart(w, r, maxMemory, maxBody)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				resp.WritePayloadTooLarge(w, "File too large (max 5 MiB)")
				return
			}

			resp.WriteInvalidRequest(w, "failed to parse multipart form")
			return
		}
		defer pm.CloseFiles()

		photo := pm.FileByKey("photo")
		if photo == nil {
			resp.WriteInvalidRequest(w, "photo file required")
			return
		}

		data, err := io.ReadAll(photo.File)
		if err != nil {
			common.LogAndWriteError(w, r, "upload read", err)
			return
		}

		result, err := st.Svc.Ingest(r.Context(), media.IngestInput{
			ItemID:   pm.StringValue("itemId"),
			MIMEType: photo.Header.Header.Get("Content-Type"),
			Data:     data,
			Enhance:  strings.EqualFold(pm.StringValue("enhance"), "true"),
		})
		if err != nil {
			common.LogAndWriteError(w, r, "upload", err)
			return
		}

		resp.WriteOK(w, uploadResponse{
			ID:       result.Record.ID,
			ItemID:   result.Record.ItemID,
			Enhanced: result.Enhanced,
			URLs:     result.URLs,
			Width:    result.Record.Width,
			Height:   result.Record.Height,
			Size:     result.Record.Size,
		})
	}
}
