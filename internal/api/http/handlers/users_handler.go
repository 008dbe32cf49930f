package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/userdir/directory-service/internal/api/dto"
	"github.com/userdir/directory-service/internal/directory"
	"github.com/userdir/directory-service/internal/domain"
	"github.com/userdir/directory-service/internal/validation"
)

// Directory is the engine surface the handlers drive.
type Directory interface {
	View() directory.View
	Get(email string) (domain.UserRecord, error)
	SuggestEmails(input string) []string
	SubmitCreate(ctx context.Context, in validation.Input) (domain.UserRecord, error)
	SubmitEdit(ctx context.Context, originalEmail string, in validation.Input) (domain.UserRecord, error)
	RequestDelete(email string) error
	StagedDelete() (string, bool)
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
	SetSearchTerm(ctx context.Context, term string) directory.View
	SetRoleFilter(ctx context.Context, filter domain.RoleFilter) (directory.View, error)
	SetPage(ctx context.Context, page int) (directory.View, error)
}

// UsersHandler turns HTTP requests into directory intents.
type UsersHandler struct {
	directory Directory
}

// NewUsersHandler constructs handler.
func NewUsersHandler(dir Directory) *UsersHandler {
	return &UsersHandler{directory: dir}
}

// List handles GET /users. The optional search, role and page query
// parameters are applied in that order; search and role only count as a
// change when they differ from the current view.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	view := h.directory.View()

	if _, ok := c.Queries()["search"]; ok {
		if term := c.Query("search"); term != view.SearchTerm {
			view = h.directory.SetSearchTerm(ctx, term)
		}
	}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" && domain.RoleFilter(raw) != view.RoleFilter {
		updated, err := h.directory.SetRoleFilter(ctx, domain.RoleFilter(raw))
		if err != nil {
			return err
		}
		view = updated
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "page must be an integer")
		}
		updated, err := h.directory.SetPage(ctx, page)
		if err != nil {
			return err
		}
		view = updated
	}

	return c.JSON(fiber.Map{"data": dto.NewViewResponse(view)})
}

// Suggestions handles GET /users/suggestions.
func (h *UsersHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.directory.SuggestEmails(c.Query("q"))})
}

// Options handles GET /users/options.
func (h *UsersHandler) Options(c *fiber.Ctx) error {
	filters := []domain.RoleFilter{domain.RoleFilterAll}
	for _, r := range domain.Roles {
		filters = append(filters, domain.RoleFilter(r))
	}
	return c.JSON(fiber.Map{"data": dto.OptionsResponse{
		Roles:       domain.Roles,
		Departments: domain.Departments,
		RoleFilters: filters,
	}})
}

// Get handles GET /users/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	rec, err := h.directory.Get(c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserRecordResponse(rec)})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rec, err := h.directory.SubmitCreate(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserRecordResponse(rec),
			"view": dto.NewViewResponse(h.directory.View()),
		},
	})
}

// Update handles PUT /users/:email.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rec, err := h.directory.SubmitEdit(c.UserContext(), c.Params("email"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserRecordResponse(rec),
			"view": dto.NewViewResponse(h.directory.View()),
		},
	})
}

// RequestDelete handles POST /users/:email/delete.
func (h *UsersHandler) RequestDelete(c *fiber.Ctx) error {
	email := c.Params("email")
	if err := h.directory.RequestDelete(email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.StagedDeleteResponse{Email: email, Staged: true},
	})
}

// StagedDelete handles GET /delete.
func (h *UsersHandler) StagedDelete(c *fiber.Ctx) error {
	email, ok := h.directory.StagedDelete()
	return c.JSON(fiber.Map{"data": dto.StagedDeleteResponse{Email: email, Staged: ok}})
}

// ConfirmDelete handles POST /delete/confirm.
func (h *UsersHandler) ConfirmDelete(c *fiber.Ctx) error {
	if err := h.directory.ConfirmDelete(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(h.directory.View())})
}

// CancelDelete handles POST /delete/cancel.
func (h *UsersHandler) CancelDelete(c *fiber.Ctx) error {
	h.directory.CancelDelete()
	return c.JSON(fiber.Map{"data": dto.StagedDeleteResponse{Staged: false}})
}
