package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// LikeService keeps the (user, property) favourites ledger. Liking bumps the
// property's likes_count; unliking does not lower it again.
type LikeService struct {
	repo         repositories.LikeRepository
	propertyRepo repositories.PropertyRepository
}

func NewLikeService(repo repositories.LikeRepository, propertyRepo repositories.PropertyRepository) *LikeService {
	return &LikeService{repo: repo, propertyRepo: propertyRepo}
}

func (s *LikeService) Like(ctx context.Context, caller models.Identity, propertyID uuid.UUID) error {
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return utils.NewNotFound("Property not found")
	}

	err = s.repo.Create(ctx, &models.PropertyLike{
		ID:         uuid.New(),
		UserID:     caller.UserID,
		PropertyID: propertyID,
	})
	switch {
	case errors.Is(err, utils.ErrAlreadyLiked):
		return utils.NewConflict("Property already liked", nil)
	case errors.Is(err, utils.ErrPropertyGone):
		return utils.NewNotFound("Property not found")
	case err != nil:
		return utils.NewInternal("Failed to like property", err)
	}
	utils.Logger.Debugf("User %s liked property %s", caller.UserID, propertyID)
	return nil
}

func (s *LikeService) Unlike(ctx context.Context, caller models.Identity, propertyID uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, caller.UserID, propertyID)
	if err != nil {
		return utils.NewInternal("Failed to unlike property", err)
	}
	if !removed {
		return utils.NewNotFound("Like not found")
	}
	utils.Logger.Debugf("User %s unliked property %s", caller.UserID, propertyID)
	return nil
}

func (s *LikeService) IsLiked(ctx context.Context, caller models.Identity, propertyID uuid.UUID) (bool, error) {
	liked, err := s.repo.Exists(ctx, caller.UserID, propertyID)
	if err != nil {
		return false, utils.NewInternal("Failed to check like", err)
	}
	return liked, nil
}

// Counts returns one entry per distinct id, in the order first given. Ids
// without likes (or without a property) count zero.
func (s *LikeService) Counts(ctx context.Context, propertyIDs []uuid.UUID) ([]models.LikeCount, error) {
	seen := make(map[uuid.UUID]bool, len(propertyIDs))
	ids := make([]uuid.UUID, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []models.LikeCount{}, nil
	}

	rows, err := s.repo.CountByProperties(ctx, ids)
	if err != nil {
		return nil, utils.NewInternal("Failed to count likes", err)
	}
	byID := make(map[uuid.UUID]int64, len(rows))
	for _, c := range rows {
		byID[c.PropertyID] = c.Count
	}

	out := make([]models.LikeCount, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.LikeCount{PropertyID: id, Count: byID[id]})
	}
	return out, nil
}

func (s *LikeService) ListLiked(ctx context.Context, caller models.Identity) ([]*models.Property, error) {
	props, err := s.repo.ListLikedProperties(ctx, caller.UserID)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch liked properties", err)
	}
	if props == nil {
		props = []*models.Property{}
	}
	return props, nil
}
