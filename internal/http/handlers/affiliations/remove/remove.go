// Package remove реализует HTTP-обработчик удаления организации.
//
// Удаление каскадное: вместе с организацией удаляются все её пользователи,
// их количество возвращается в ответе.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/apierr"
	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление организации по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление организации.
type Service interface {
	RemoveAffiliation(ctx context.Context, id int64) (int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить организацию
// @Description Удаляет организацию вместе со всеми её пользователями.
// @Tags Affiliations
// @Produce  json
// @Param id path int true "ID организации"
// @Success 200 {object} map[string]any "Количество удалённых пользователей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Организация не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении"
// @Router /admin/accounts/affiliations/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.affiliations.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	removed, err := h.service.RemoveAffiliation(r.Context(), id)
	if err != nil {
		code, msg := apierr.Status(err, "could not remove affiliation")
		log.Error("failed to remove affiliation", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("affiliation removed", slog.Int64("id", id), slog.Int("removed_users", removed))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed_users": removed,
	}))
}
