// Package list реализует HTTP-обработчик списка организаций, включая удалённые.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/accounts-admin/internal/admin"
	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Handler обрабатывает запросы списка организаций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку организаций.
type Service interface {
	ListAffiliations(ctx context.Context) ([]*models.Affiliation, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список организаций
// @Description Возвращает все организации, включая помеченные удалёнными.
// @Tags Affiliations
// @Produce  json
// @Success 200 {object} map[string]any "Организации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выборке организаций"
// @Router /admin/accounts/affiliations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.affiliations.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListAffiliations(r.Context())
	if err != nil {
		log.Error("failed to list affiliations", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list affiliations"))
		return
	}
	if res == nil {
		res = []*models.Affiliation{}
	}

	log.Info("affiliations listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"columns": admin.AffiliationColumns,
		"rows":    res,
	}))
}
