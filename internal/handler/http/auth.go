package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr201-backend-go/internal/handler/http/response"
	authService "github.com/cmlabs-hris/hr201-backend-go/internal/service/auth"
	"github.com/go-playground/validator/v10"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	service  *authService.Service
	validate *validator.Validate
}

func NewAuthHandler(service *authService.Service) AuthHandler {
	return &AuthHandlerImpl{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := a.validate.Struct(req); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.service.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokens)
}
