package synclog

import (
	"net/http"

	"macarabia_sync/handling"

	"github.com/MonkyMars/gecho"
)

// ListEvents returns recent sync deliveries, newest first. Supported query
// parameters: limit, topic, outcome, product_id.
func (slrm *SyncLogRoutesManager) ListEvents(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListEventsOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.Send(),
		)
		return
	}

	events, err := slrm.syncLogService.ListEvents(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch sync events", slrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(events),
		gecho.Send(),
	)
}
