package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-reconciler/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-reconciler/internal/service/reconciler"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	LogDetails(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	reconcilerService *reconciler.Service
}

func NewAttendanceHandler(reconcilerService *reconciler.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		reconcilerService: reconcilerService,
	}
}

// Report implements AttendanceHandler.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ReportFilter{
		Period: r.URL.Query().Get("period"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result := h.reconcilerService.MonthlyReport(r.Context(), middleware.UserKey(r), filter)
	response.Success(w, result)
}

// LogDetails implements AttendanceHandler.
func (h *attendanceHandlerImpl) LogDetails(w http.ResponseWriter, r *http.Request) {
	req := attendance.LogDetailsRequest{
		Date: chi.URLParam(r, "date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result := h.reconcilerService.LogDetails(r.Context(), req.Date)
	response.Success(w, result)
}

// TodayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	result := h.reconcilerService.TodayStatus(r.Context())
	response.Success(w, result)
}
