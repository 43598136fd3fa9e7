package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/pagination"
	"github.com/worldpop/worldpop-api/repositories"
	"github.com/worldpop/worldpop-api/utils"
)

// UserHandler serves the admin user listing.
type UserHandler struct {
	users      repositories.UserRepository
	normalizer *pagination.Normalizer
	logger     *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users repositories.UserRepository, normalizer *pagination.Normalizer, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, normalizer: normalizer, logger: logger}
}

// List returns one page of user accounts as public profiles.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := pagination.Paginate[models.User](r.Context(), h.normalizer, pagination.FromQuery(r), h.users)
	if err != nil {
		h.logger.Error("user listing failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	profiles := make([]models.Profile, 0, len(result.Items))
	for _, u := range result.Items {
		profiles = append(profiles, u.PublicProfile())
	}

	_ = utils.WriteOK(w, pagination.Result[models.Profile]{
		Items:      profiles,
		PageNumber: result.PageNumber,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}
