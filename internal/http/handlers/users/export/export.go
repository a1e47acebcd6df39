// Package export реализует выгрузку пользователей в CSV.
//
// Выгрузка учитывает те же фильтры, что и список, но без пагинации.
// Файл всегда называется Sample.csv и кодируется в Shift_JIS.
package export

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/accounts-admin/internal/admin"
	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Handler отдаёт CSV-выгрузку пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
	loc     *time.Location
}

// Service описывает интерфейс выборки пользователей для выгрузки.
type Service interface {
	ExportUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error)
}

// New создает Handler; loc задаёт часовой пояс даты регистрации.
func New(log *slog.Logger, service Service, loc *time.Location) *Handler {
	return &Handler{
		log:     log,
		service: service,
		loc:     loc,
	}
}

// ServeHTTP godoc
// @Summary Выгрузить пользователей в CSV
// @Description Отдаёт файл Sample.csv в кодировке Shift_JIS с пользователями, подходящими под фильтры списка.
// @Tags Users
// @Produce  text/csv
// @Param is_active query string false "Фильтр статуса" Enums(True, False)
// @Param last_name query string false "Фильтр по фамилии"
// @Param email query string false "Фильтр по email"
// @Param q query string false "Поиск по username, фамилии, имени и email"
// @Param o query string false "Сортировка"
// @Success 200 {file} file "Sample.csv"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выгрузке"
// @Router /admin/accounts/users/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ExportUsers(r.Context(), admin.ParseUserFilter(r.URL.Query()))
	if err != nil {
		log.Error("failed to select users for export", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export users"))
		return
	}

	// заголовки пишутся только после успешного кодирования
	var buf bytes.Buffer
	if err := admin.WriteCSV(&buf, users, h.loc); err != nil {
		log.Error("failed to encode csv", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export users"))
		return
	}

	w.Header().Set("Content-Type", admin.ExportContentType)
	w.Header().Set("Content-Disposition", admin.ExportDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write csv", sl.Err(err))
		return
	}

	log.Info("users exported", slog.Int("count", len(users)))
}
