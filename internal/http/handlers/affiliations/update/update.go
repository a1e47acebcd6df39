// Package update реализует HTTP-обработчик изменения организации.
//
// Флаг delete_flg помечает организацию удалённой: она остаётся в списке
// организаций, но пропадает из выбора в форме пользователя.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/apierr"
	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Handler обрабатывает запросы на изменение организации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает изменение организации.
type Service interface {
	UpdateAffiliation(ctx context.Context, id int64, form models.AffiliationForm) (*models.Affiliation, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить организацию
// @Description Изменяет название и флаг удаления организации.
// @Tags Affiliations
// @Accept  json
// @Produce  json
// @Param id path int true "ID организации"
// @Param request body models.AffiliationForm true "Форма организации"
// @Success 200 {object} map[string]any "Изменённая организация"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или JSON"
// @Failure 404 {object} response.ErrorResponse "Организация не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при сохранении"
// @Router /admin/accounts/affiliations/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.affiliations.update"

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

	var form models.AffiliationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	res, err := h.service.UpdateAffiliation(r.Context(), id, form)
	if err != nil {
		code, msg := apierr.Status(err, "could not update affiliation")
		log.Error("failed to update affiliation", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("affiliation updated", slog.Int64("id", id), slog.Bool("deleted", res.IsDeleted))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"affiliation": res,
	}))
}
