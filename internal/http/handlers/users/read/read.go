// Package read реализует HTTP-обработчик формы редактирования пользователя.
//
// Handler возвращает пользователя по ID и список организаций, доступных для
// выбора: удалённые организации в него не входят.
package read

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
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Handler обрабатывает запросы на получение пользователя по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	AffiliationChoices(ctx context.Context) ([]*models.Affiliation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Description Возвращает пользователя по ID и организации, доступные для выбора в форме.
// @Tags Users
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]any "Пользователь и варианты организаций"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/accounts/users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

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

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		code, msg := apierr.Status(err, "could not read user")
		log.Error("failed to read user", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	choices, err := h.service.AffiliationChoices(r.Context())
	if err != nil {
		log.Error("failed to list affiliation choices", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	log.Info("user read", slog.Int64("id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":                user,
		"affiliation_choices": choices,
	}))
}
