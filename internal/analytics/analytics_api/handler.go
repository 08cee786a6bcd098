package analytics_api

import (
	"net/http"

	"tcs-portal/internal/analytics"
	"tcs-portal/internal/logger"
	"tcs-portal/internal/utils"
)

type Handler struct {
	Analytics *analytics.Service
	Logger    *logger.Logger
}

func NewHandler(analyticsSvc *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Analytics: analyticsSvc, Logger: log}
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Analytics overview", h.Analytics.Overview(r.Context())))
}
