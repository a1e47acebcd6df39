package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

const userColumns = `id, username, password, last_name, first_name, zip, prefecture, city,
			      address, email, date_joined, is_active, is_staff, is_superuser, affiliation_id`

// userOrdering сопоставляет ключ сортировки из админки с выражением ORDER BY.
var userOrdering = map[string]string{
	"username":     "username ASC",
	"-username":    "username DESC",
	"last_name":    "last_name ASC",
	"-last_name":   "last_name DESC",
	"date_joined":  "date_joined ASC",
	"-date_joined": "date_joined DESC",
}

// DefaultUserOrdering используется, если ключ сортировки не задан или неизвестен.
const DefaultUserOrdering = "username"

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (username, password, last_name, first_name, zip, prefecture,
			      city, address, email, date_joined, is_active, is_staff, is_superuser, affiliation_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash, u.LastName, u.FirstName,
		nullString(u.Zip), nullString(u.Prefecture), nullString(u.City), nullString(u.Address),
		nullString(u.Email), u.DateJoined, u.IsActive, u.IsStaff, u.IsSuperuser,
		nullInt64(u.AffiliationID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// UpdateUser обновляет пользователя по ID. Дата регистрации не изменяется.
func (s *Storage) UpdateUser(ctx context.Context, u models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = $1, password = $2, last_name = $3, first_name = $4, zip = $5,
			      prefecture = $6, city = $7, address = $8, email = $9, is_active = $10,
			      is_staff = $11, is_superuser = $12, affiliation_id = $13
			  WHERE id = $14`
	result, err := s.DB.ExecContext(ctx, query,
		u.Username, u.PasswordHash, u.LastName, u.FirstName,
		nullString(u.Zip), nullString(u.Prefecture), nullString(u.City), nullString(u.Address),
		nullString(u.Email), u.IsActive, u.IsStaff, u.IsSuperuser,
		nullInt64(u.AffiliationID), u.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, mapError(sql.ErrNoRows))
	}
	return nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsers возвращает пользователей, подходящих под фильтр, в заданном порядке.
func (s *Storage) ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildUserWhere(f)
	query := `SELECT ` + userColumns + `
			  FROM users` + where + `
			  ORDER BY ` + orderBy(f.Ordering) + `, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUsers возвращает количество пользователей, подходящих под фильтр.
func (s *Storage) CountUsers(ctx context.Context, f models.UserFilter) (int, error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildUserWhere(f)
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemoveUser удаляет пользователя по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveUser(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                                     models.User
		zip, prefecture, city, address, email sql.NullString
		affiliationID                         sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.LastName, &u.FirstName,
		&zip, &prefecture, &city, &address, &email, &u.DateJoined,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &affiliationID); err != nil {
		return nil, err
	}
	u.Zip = zip.String
	u.Prefecture = prefecture.String
	u.City = city.String
	u.Address = address.String
	u.Email = email.String
	if affiliationID.Valid {
		id := affiliationID.Int64
		u.AffiliationID = &id
	}
	return &u, nil
}

// buildUserWhere собирает условие WHERE и аргументы запроса по фильтру.
func buildUserWhere(f models.UserFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if f.IsActive != nil {
		add("is_active = ?", *f.IsActive)
	}
	if f.LastName != "" {
		add(`last_name ILIKE ? ESCAPE '\'`, containsPattern(f.LastName))
	}
	if f.Email != "" {
		add(`email ILIKE ? ESCAPE '\'`, containsPattern(f.Email))
	}
	if f.Search != "" {
		add(`(username ILIKE ? ESCAPE '\' OR last_name ILIKE ? ESCAPE '\'`+
			` OR first_name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\')`, containsPattern(f.Search))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(key string) string {
	if expr, ok := userOrdering[key]; ok {
		return expr
	}
	return userOrdering[DefaultUserOrdering]
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern превращает значение в шаблон ILIKE для поиска подстроки.
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}
