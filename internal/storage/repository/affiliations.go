package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// CreateAffiliation сохраняет организацию и возвращает её ID.
func (s *Storage) CreateAffiliation(ctx context.Context, a models.Affiliation) (int64, error) {
	const op = "storage.CreateAffiliation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO affiliations (name, delete_flg) VALUES ($1, $2) RETURNING id`,
		a.Name, a.IsDeleted).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateAffiliation обновляет название и флаг удаления организации.
func (s *Storage) UpdateAffiliation(ctx context.Context, a models.Affiliation) error {
	const op = "storage.UpdateAffiliation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE affiliations SET name = $1, delete_flg = $2 WHERE id = $3`,
		a.Name, a.IsDeleted, a.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
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

// GetAffiliation возвращает организацию по ID.
func (s *Storage) GetAffiliation(ctx context.Context, id int64) (*models.Affiliation, error) {
	const op = "storage.GetAffiliation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var a models.Affiliation
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, delete_flg FROM affiliations WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.IsDeleted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &a, nil
}

// ListAffiliations возвращает организации по ID. Без includeDeleted
// помеченные удалёнными записи не попадают в выборку.
func (s *Storage) ListAffiliations(ctx context.Context, includeDeleted bool) ([]*models.Affiliation, error) {
	const op = "storage.ListAffiliations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, delete_flg FROM affiliations`
	if !includeDeleted {
		query += ` WHERE delete_flg = FALSE`
	}
	query += ` ORDER BY id`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Affiliation
	for rows.Next() {
		var a models.Affiliation
		if err := rows.Scan(&a.ID, &a.Name, &a.IsDeleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveAffiliation удаляет организацию вместе со всеми пользователями,
// которые к ней относятся (ON DELETE CASCADE), и возвращает ID удалённых
// пользователей. Выборка и удаление выполняются в одной транзакции.
func (s *Storage) RemoveAffiliation(ctx context.Context, id int64) ([]int64, error) {
	const op = "storage.RemoveAffiliation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM users WHERE affiliation_id = $1 ORDER BY id FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_ = rows.Close()

	result, err := tx.ExecContext(ctx, `DELETE FROM affiliations WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, mapError(sql.ErrNoRows))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return userIDs, nil
}
