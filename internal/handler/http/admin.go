package http

import (
	"encoding/json"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/attendly/attendance-backend-go/internal/pkg/officetime"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AdminHandler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	UserStats(w http.ResponseWriter, r *http.Request)
	Activities(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	GetOfficeLocation(w http.ResponseWriter, r *http.Request)
	SetOfficeLocation(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	userService       user.Service
	attendanceService attendance.Service
	officeRegistry    office.Registry
}

func NewAdminHandler(userService user.Service, attendanceService attendance.Service, officeRegistry office.Registry) AdminHandler {
	return &adminHandlerImpl{
		userService:       userService,
		attendanceService: attendanceService,
		officeRegistry:    officeRegistry,
	}
}

// CreateUser implements AdminHandler.
func (h *adminHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created", result)
}

// ListUsers implements AdminHandler.
func (h *adminHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UserStats implements AdminHandler. Monthly attendance statistics for any
// user, defaulting to the current office month.
func (h *adminHandlerImpl) UserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.MonthlyStats(r.Context(), userID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Activities implements AdminHandler.
func (h *adminHandlerImpl) Activities(w http.ResponseWriter, r *http.Request) {
	var filter attendance.ActivityFilter

	if v := r.URL.Query().Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		date, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.StartDate = &date
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		date, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.EndDate = &date
	}

	result, err := h.attendanceService.ListActivities(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkAbsent implements AdminHandler. Manual trigger for the end-of-day
// absence marker; defaults to today when no date is given.
func (h *adminHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	date := officetime.Today()

	if v := r.URL.Query().Get("date"); v != "" {
		parsed, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	marked, err := h.attendanceService.MarkAbsent(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absent users marked", map[string]interface{}{
		"date":   date.Format("2006-01-02"),
		"marked": marked,
	})
}

// GetOfficeLocation implements AdminHandler.
func (h *adminHandlerImpl) GetOfficeLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.officeRegistry.GetActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, office.ToResponse(loc))
}

// SetOfficeLocation implements AdminHandler.
func (h *adminHandlerImpl) SetOfficeLocation(w http.ResponseWriter, r *http.Request) {
	var req office.SetLocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	loc, err := h.officeRegistry.SetActive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office location updated", office.ToResponse(loc))
}
