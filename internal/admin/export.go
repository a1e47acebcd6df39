package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

const (
	// ExportFilename — имя файла выгрузки, одинаковое для любой выборки.
	ExportFilename = "Sample.csv"
	// ExportContentType — тип содержимого выгрузки.
	ExportContentType = "text/csv; charset=Shift_JIS"
	// DateJoinedLayout — формат даты регистрации без ведущих нулей.
	DateJoinedLayout = "2006/1/2"
)

// ExportDisposition возвращает значение заголовка Content-Disposition.
func ExportDisposition() string {
	return "attachment; filename=" + strconv.Quote(ExportFilename)
}

// FormatDateJoined форматирует дату регистрации в часовом поясе loc.
func FormatDateJoined(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateJoinedLayout)
}

// WriteCSV пишет выгрузку пользователей в Shift_JIS без строки заголовка.
// Каждая строка содержит одну колонку — дату регистрации.
func WriteCSV(w io.Writer, users []*models.User, loc *time.Location) error {
	const op = "admin.WriteCSV"

	enc := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
	cw := csv.NewWriter(enc)
	for _, u := range users {
		if err := cw.Write([]string{FormatDateJoined(u.DateJoined, loc)}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
