package httpHandler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"user-registry/entities"
	"user-registry/handlers"
	"user-registry/usecases"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	useCase *usecases.UserUseCase
}

func NewUserHandler(useCase *usecases.UserUseCase) *UserHandler {
	return &UserHandler{
		useCase: useCase,
	}
}

// pathID reads the :id segment. Only unsigned digits match, so "-1" or "+1"
// are treated like an unknown route.
func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", usecases.ErrInvalidID, raw)
	}
	return usecases.ParseID(raw)
}

// Index handles GET /
func (h *UserHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"form": usecases.RegistrationForm{},
	})
}

// Submit handles POST /submit
func (h *UserHandler) Submit(c *gin.Context) {
	var form usecases.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.RenderError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, usecases.ErrMissingField) || errors.Is(err, usecases.ErrPasswordTooLong) {
			form.Password = ""
			c.HTML(http.StatusBadRequest, "index.html", gin.H{
				"form":  form,
				"error": err.Error(),
			})
			return
		}
		handlers.RenderError(c, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	handlers.Logger(c).WithField("user_id", user.ID).Info("user registered")

	c.HTML(http.StatusOK, "submitted.html", gin.H{
		"users": []entities.User{*user},
	})
}

// LookupForm handles GET /get-data
func (h *UserHandler) LookupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "get_data.html", gin.H{
		"input_id": "",
	})
}

// Lookup handles POST /get-data
func (h *UserHandler) Lookup(c *gin.Context) {
	raw, ok := c.GetPostForm("input_id")
	id, err := usecases.ParseID(raw)
	if !ok || err != nil {
		c.HTML(http.StatusBadRequest, "get_data.html", gin.H{
			"input_id": raw,
			"error":    usecases.ErrInvalidID.Error(),
		})
		return
	}

	users, err := h.useCase.GetUser(c.Request.Context(), id)
	if err != nil {
		handlers.RenderError(c, http.StatusInternalServerError, "Lookup failed", err)
		return
	}

	c.HTML(http.StatusOK, "data.html", gin.H{
		"users":    users,
		"input_id": id,
	})
}

// ConfirmDelete handles GET /delete/:id
func (h *UserHandler) ConfirmDelete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handlers.RenderError(c, http.StatusNotFound, "Not found", err)
		return
	}

	c.HTML(http.StatusOK, "delete.html", gin.H{
		"id": id,
	})
}

// Delete handles POST /delete/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handlers.RenderError(c, http.StatusNotFound, "Not found", err)
		return
	}

	if err := h.useCase.DeleteUser(c.Request.Context(), id); err != nil {
		handlers.RenderError(c, http.StatusInternalServerError, "Delete failed", err)
		return
	}

	handlers.Logger(c).WithField("user_id", id).Info("user deleted")

	c.Redirect(http.StatusFound, "/get-data")
}
