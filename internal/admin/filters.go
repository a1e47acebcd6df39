package admin

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Параметры строки запроса списка пользователей.
const (
	ParamStatus   = "is_active"
	ParamLastName = "last_name"
	ParamEmail    = "email"
	ParamSearch   = "q"
	ParamOrdering = "o"
	ParamLimit    = "limit"
	ParamOffset   = "offset"
)

const (
	// ListPerPage — размер страницы по умолчанию.
	ListPerPage = 100
	// ListMaxPerPage ограничивает limit сверху.
	ListMaxPerPage = 1000
)

// Значения фильтра статуса.
const (
	StatusActive   = "True"
	StatusInactive = "False"
)

// ParseStatus разбирает значение фильтра статуса. Пустые и неизвестные
// значения фильтр не накладывают.
func ParseStatus(v string) *bool {
	var b bool
	switch v {
	case StatusActive:
		b = true
	case StatusInactive:
		b = false
	default:
		return nil
	}
	return &b
}

// ParseUserFilter переводит строку запроса в фильтр выборки пользователей.
func ParseUserFilter(q url.Values) models.UserFilter {
	f := models.UserFilter{
		IsActive: ParseStatus(q.Get(ParamStatus)),
		LastName: strings.TrimSpace(q.Get(ParamLastName)),
		Email:    strings.TrimSpace(q.Get(ParamEmail)),
		Search:   strings.TrimSpace(q.Get(ParamSearch)),
		Ordering: q.Get(ParamOrdering),
		Limit:    ListPerPage,
	}
	if !slices.Contains(OrderingKeys, f.Ordering) {
		f.Ordering = DefaultOrdering
	}

	if limit, err := strconv.Atoi(q.Get(ParamLimit)); err == nil && limit > 0 {
		f.Limit = min(limit, ListMaxPerPage)
	}
	if offset, err := strconv.Atoi(q.Get(ParamOffset)); err == nil && offset > 0 {
		f.Offset = offset
	}
	return f
}

// Choice — один вариант фильтра со ссылкой на него.
type Choice struct {
	Label    string `json:"label"`
	Query    string `json:"query"`
	Selected bool   `json:"selected"`
}

// Filter описывает фильтр списка и его варианты.
type Filter struct {
	Title   string   `json:"title"`
	Param   string   `json:"param"`
	Value   string   `json:"value,omitempty"`
	Choices []Choice `json:"choices"`
}

// UserFilters строит фильтры списка пользователей для текущей строки
// запроса. Ссылки вариантов сохраняют остальные параметры и сбрасывают
// свой параметр и смещение.
func UserFilters(q url.Values) []Filter {
	status := q.Get(ParamStatus)
	if ParseStatus(status) == nil {
		status = ""
	}

	return []Filter{
		{
			Title: "有効フラグ",
			Param: ParamStatus,
			Value: status,
			Choices: []Choice{
				{Label: "すべて", Query: choiceQuery(q, ParamStatus, ""), Selected: status == ""},
				{Label: "有効", Query: choiceQuery(q, ParamStatus, StatusActive), Selected: status == StatusActive},
				{Label: "無効", Query: choiceQuery(q, ParamStatus, StatusInactive), Selected: status == StatusInactive},
			},
		},
		textFilter(q, "苗字", ParamLastName),
		textFilter(q, "メールアドレス", ParamEmail),
	}
}

// textFilter — фильтр со свободным вводом, единственный вариант сбрасывает его.
func textFilter(q url.Values, title, param string) Filter {
	value := strings.TrimSpace(q.Get(param))
	return Filter{
		Title: title,
		Param: param,
		Value: value,
		Choices: []Choice{
			{Label: "すべて", Query: choiceQuery(q, param, ""), Selected: value == ""},
		},
	}
}

func choiceQuery(q url.Values, param, value string) string {
	next := url.Values{}
	for k, v := range q {
		if k == param || k == ParamOffset {
			continue
		}
		next[k] = slices.Clone(v)
	}
	if value != "" {
		next.Set(param, value)
	}
	return "?" + next.Encode()
}
