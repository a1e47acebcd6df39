// Package list реализует HTTP-обработчик списка пользователей админки.
//
// Handler разбирает фильтры, поиск, сортировку и пагинацию из строки запроса
// и возвращает строки списка вместе с описанием колонок и вариантами фильтров.
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

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки пользователей.
type Service interface {
	ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, int, error)
}

// Page — ответ списка пользователей.
type Page struct {
	Columns      []admin.Column  `json:"columns"`
	Rows         []admin.UserRow `json:"rows"`
	Total        int             `json:"total"`
	Limit        int             `json:"limit"`
	Offset       int             `json:"offset"`
	Ordering     string          `json:"ordering"`
	OrderingKeys []string        `json:"ordering_keys"`
	Search       string          `json:"search"`
	SearchFields []string        `json:"search_fields"`
	Filters      []admin.Filter  `json:"filters"`
	Actions      []string        `json:"actions"`
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает страницу пользователей с колонками, фильтрами и доступными действиями.
// @Tags Users
// @Produce  json
// @Param is_active query string false "Фильтр статуса" Enums(True, False)
// @Param last_name query string false "Фильтр по фамилии"
// @Param email query string false "Фильтр по email"
// @Param q query string false "Поиск по username, фамилии, имени и email"
// @Param o query string false "Сортировка"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} list.Page "Страница списка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выборке пользователей"
// @Router /admin/accounts/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	f := admin.ParseUserFilter(q)

	users, total, err := h.service.ListUsers(r.Context(), f)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	rows := make([]admin.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, admin.NewUserRow(u))
	}

	log.Info("users listed", slog.Int("count", len(rows)), slog.Int("total", total))
	render.JSON(w, r, response.StatusOKWithData(Page{
		Columns:      admin.UserColumns,
		Rows:         rows,
		Total:        total,
		Limit:        f.Limit,
		Offset:       f.Offset,
		Ordering:     f.Ordering,
		OrderingKeys: admin.OrderingKeys,
		Search:       f.Search,
		SearchFields: admin.SearchFields,
		Filters:      admin.UserFilters(q),
		Actions:      []string{},
	}))
}
