// Package create реализует HTTP-обработчик создания организации.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Handler обрабатывает запросы на создание организации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание организации.
type Service interface {
	CreateAffiliation(ctx context.Context, form models.AffiliationForm) (*models.Affiliation, error)
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
// @Summary Создать организацию
// @Description Создаёт организацию.
// @Tags Affiliations
// @Accept  json
// @Produce  json
// @Param request body models.AffiliationForm true "Форма организации"
// @Success 201 {object} map[string]any "Созданная организация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании организации"
// @Router /admin/accounts/affiliations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.affiliations.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	res, err := h.service.CreateAffiliation(r.Context(), form)
	if err != nil {
		log.Error("failed to create affiliation", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create affiliation"))
		return
	}

	log.Info("affiliation created", slog.Int64("id", res.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"affiliation": res,
	}))
}
