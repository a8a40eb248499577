package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/handler/http/response"
	leaveService "github.com/cmlabs-hris/hr201-backend-go/internal/service/leave"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveService.RequestService
	validate       *validator.Validate
}

func NewLeaveHandler(requestService *leaveService.RequestService) LeaveHandler {
	return &LeaveHandlerImpl{
		requestService: requestService,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := l.validate.Struct(req); err != nil {
		response.HandleError(w, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		response.BadRequest(w, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	actorID, username := actorFromContext(r)

	created, err := l.requestService.Create(r.Context(), cmd, actorID, requestMetadata(r, username))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be numeric", nil)
		return
	}

	request, approvals, err := l.requestService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"request":   request,
		"approvals": approvals,
	})
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		response.BadRequest(w, "employee_id query parameter is required", nil)
		return
	}

	filter := leave.LeaveFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}

	requests, total, err := l.requestService.GetByEmployeeID(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	response.SuccessWithMeta(w, requests, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be numeric", nil)
		return
	}

	actorID, _ := actorFromContext(r)

	if err := l.requestService.Delete(r.Context(), id, actorID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"id": id})
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := l.requestService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

func actorFromContext(r *http.Request) (actorID, username string) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", ""
	}
	if v, ok := claims["user_id"].(string); ok {
		actorID = v
	}
	if v, ok := claims["username"].(string); ok {
		username = v
	}
	return actorID, username
}

func requestMetadata(r *http.Request, username string) *leave.RequestMetadata {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &leave.RequestMetadata{
		IPAddress: host,
		UserAgent: r.UserAgent(),
		SessionID: sessionID,
		Username:  username,
	}
}
