package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/service"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	authService *service.AuthService
	users       *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users *service.UserService) *UsersHandler {
	return &UsersHandler{authService: authService, users: users}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.authService.RegisterUser(c.UserContext(), registerInput(req)); err != nil {
		return err
	}
	return message(c, "User registered successfully!")
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if result.IsAdminLogin() {
		return c.JSON(dto.AdminLoginResponse{
			Role:      result.Role,
			Email:     result.Email,
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
		})
	}
	return c.JSON(dto.UserLoginResponse{
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// List handles GET /api/users/all.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(items)
}

// Update handles PUT /api/users/update/:id. Users may only update themselves.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.IsAdmin() && principal.UserID != id {
		return apperrors.NewForbidden("cannot update another user")
	}
	return h.update(c, id, principal.IsAdmin(), "User updated successfully!")
}

// AdminUpdate handles PUT /api/users/admin/user/:id.
func (h *UsersHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, id, true, "User updated successfully from admin!")
}

func (h *UsersHandler) update(c *fiber.Ctx, id int64, allowRole bool, text string) error {
	var req dto.UserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update := service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if allowRole {
		update.Role = req.Role
	}
	if _, err := h.users.Update(c.UserContext(), id, update); err != nil {
		return err
	}
	return message(c, text)
}

// Delete handles DELETE /api/users/delete/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "User deleted successfully!")
}

func registerInput(req dto.UserRegisterRequest) service.RegisterInput {
	return service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	}
}
