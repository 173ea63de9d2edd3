package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/response"
)

const maxDocumentSize = 5 << 20

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=80"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Address     string `json:"address" validate:"omitempty,max=200"`
	City        string `json:"city" validate:"omitempty,max=60"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

type presenceRequest struct {
	Online bool `json:"online"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return response.Error(c, errors.InvalidInput("date_of_birth must be YYYY-MM-DD", err))
		}
		input.DateOfBirth = &dob
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), currentUserID(c), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// UploadDocument stores a multipart "file" as the avatar or an ID image.
func (h *UserHandler) UploadDocument(c echo.Context) error {
	kind := usecase.DocumentKind(c.Param("kind"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.InvalidInput("file is required", err))
	}
	if fileHeader.Size > maxDocumentSize {
		return response.Error(c, errors.InvalidInput("file must be 5MB or smaller", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.InvalidInput("unable to read file", err))
	}
	defer file.Close()

	user, err := h.userUseCase.UploadDocument(
		c.Request().Context(),
		currentUserID(c),
		kind,
		fileHeader.Header.Get(echo.HeaderContentType),
		file,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) SubmitOnboarding(c echo.Context) error {
	user, err := h.userUseCase.SubmitOnboarding(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) SetPresence(c echo.Context) error {
	var req presenceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.SetPresence(c.Request().Context(), currentUserID(c), req.Online); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"online": req.Online})
}
