package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// ListAffiliations возвращает все организации, включая помеченные удалёнными.
func (s *Service) ListAffiliations(ctx context.Context) ([]*models.Affiliation, error) {
	const op = "accounts.ListAffiliations"
	result, err := s.affiliations.ListAffiliations(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AffiliationChoices возвращает организации, которые можно назначить пользователю.
func (s *Service) AffiliationChoices(ctx context.Context) ([]*models.Affiliation, error) {
	const op = "accounts.AffiliationChoices"
	result, err := s.affiliations.ListAffiliations(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateAffiliation создаёт организацию.
func (s *Service) CreateAffiliation(ctx context.Context, form models.AffiliationForm) (*models.Affiliation, error) {
	const op = "accounts.CreateAffiliation"
	a := models.Affiliation{Name: form.Name, IsDeleted: form.IsDeleted}
	id, err := s.affiliations.CreateAffiliation(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.ID = id

	s.record(ctx, models.ActionAdd, models.ObjectAffiliation, id, a.String(), "")
	return &a, nil
}

// UpdateAffiliation обновляет организацию.
func (s *Service) UpdateAffiliation(ctx context.Context, id int64, form models.AffiliationForm) (*models.Affiliation, error) {
	const op = "accounts.UpdateAffiliation"
	a := models.Affiliation{ID: id, Name: form.Name, IsDeleted: form.IsDeleted}
	if err := s.affiliations.UpdateAffiliation(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, models.ActionChange, models.ObjectAffiliation, id, a.String(), "")
	return &a, nil
}

// RemoveAffiliation удаляет организацию. Пользователи, которые к ней
// относятся, удаляются вместе с ней; возвращается их количество.
func (s *Service) RemoveAffiliation(ctx context.Context, id int64) (int, error) {
	const op = "accounts.RemoveAffiliation"
	removed, err := s.affiliations.RemoveAffiliation(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUsers(removed...)

	if len(removed) > 0 {
		s.log.Warn("affiliation removal cascaded to users",
			slog.Int64("affiliation_id", id), slog.Int("removed_users", len(removed)))
	}
	s.record(ctx, models.ActionDelete, models.ObjectAffiliation, id, "",
		fmt.Sprintf("removed %d users", len(removed)))
	return len(removed), nil
}
