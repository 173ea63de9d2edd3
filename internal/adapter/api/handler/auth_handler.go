package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	City     string `json:"city" validate:"omitempty,max=60"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUseCase.Logout(c.Request().Context(), currentUserID(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Logged out"})
}

// ForgotPassword answers the same way whether or not the email is known.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authUseCase.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	result, err := h.authUseCase.Me(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
