package handler

import (
	"net/http"
	"strconv"
	"taskboard/internal/common"
	"taskboard/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// respondError maps a service error to its status and envelope. Internal
// failures are logged and masked; everything else carries its exact message.
func respondError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		logger.L.Error().Err(err).Msg("request failed")
		common.RespondWithInternalError(w, err)
		return
	}
	common.RespondWithError(w, status, err.Error())
}

// idParam parses a numeric URL parameter; a non-numeric id reads as a
// resource that does not exist.
func idParam(r *http.Request, name, notFoundMessage string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, common.NewError(common.ErrNotFound, notFoundMessage)
	}
	return id, nil
}
