package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	domainLeave "github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/handler/http/response"
	leaveService "github.com/cmlabs-hris/attendance-reconciler/internal/service/leave"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService *leaveService.Service
}

func NewLeaveHandler(service *leaveService.Service) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: service,
	}
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req domainLeave.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode leave request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", result)
}

// ListMy implements LeaveHandler.
func (h *leaveHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}

	result, err := h.leaveService.ListMyLeaves(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
