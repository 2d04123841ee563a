package service

import (
	"context"
	"fmt"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"github.com/recipeinbox/backend/pkg/storage"
)

// maxTitleAttempts bounds the "Title (n)" search
const maxTitleAttempts = 1000

// ImageStore duplicates and removes stored recipe images
type ImageStore interface {
	Duplicate(ctx context.Context, location string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// RecipeShareService copies a recipe into another user's inbox
type RecipeShareService interface {
	ShareRecipe(ctx context.Context, sourceRecipeID, senderID, recipientID string) (*domain.Recipe, error)
	DiscardClone(ctx context.Context, clone *domain.Recipe)
}

type recipeShareService struct {
	tx         repository.Transactor
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	images     ImageStore
}

// NewRecipeShareService creates a new RecipeShareService. images may be nil,
// in which case clones are created without an image.
func NewRecipeShareService(tx repository.Transactor, recipeRepo repository.RecipeRepository, userRepo repository.UserRepository, images ImageStore) RecipeShareService {
	return &recipeShareService{
		tx:         tx,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		images:     images,
	}
}

// ShareRecipe clones the source recipe into the recipient's inbox.
// When ctx carries a transaction the clone joins it; the title search and the insert
// run under a lock on the recipient so concurrent shares cannot pick the same title.
func (s *recipeShareService) ShareRecipe(ctx context.Context, sourceRecipeID, senderID, recipientID string) (*domain.Recipe, error) {
	source, err := s.recipeRepo.FindByID(ctx, sourceRecipeID)
	if err != nil {
		return nil, err
	}

	image, err := s.duplicateImage(ctx, source)
	if err != nil {
		return nil, err
	}

	clone := &domain.Recipe{
		UserID:       recipientID,
		Description:  source.Description,
		Yield:        source.Yield,
		ActiveTime:   source.ActiveTime,
		TotalTime:    source.TotalTime,
		Source:       source.Source,
		URL:          source.URL,
		Notes:        source.Notes,
		Ingredients:  source.Ingredients,
		Instructions: source.Instructions,
		Image:        image,
		Folder:       domain.FolderInbox,
		FromUserID:   &senderID,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.LockByID(ctx, recipientID); err != nil {
			return err
		}
		title, err := s.findTitle(ctx, recipientID, source.Title)
		if err != nil {
			return err
		}
		clone.Title = title
		return s.recipeRepo.Create(ctx, clone)
	})
	if err != nil {
		s.DiscardClone(ctx, clone)
		return nil, err
	}

	return clone, nil
}

// DiscardClone removes the image copied for a clone whose transaction did not commit
func (s *recipeShareService) DiscardClone(ctx context.Context, clone *domain.Recipe) {
	if clone == nil || clone.Image == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(context.WithoutCancel(ctx), clone.Image.Key); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", clone.Image.Key).Msg("failed to remove orphaned image copy")
	}
}

func (s *recipeShareService) duplicateImage(ctx context.Context, source *domain.Recipe) (*domain.RecipeImage, error) {
	if source.Image == nil || source.Image.Location == "" {
		return nil, nil
	}
	if s.images == nil {
		pkglogger.GetLogger().Warn().Str("recipe_id", source.ID).Msg("image store not configured; sharing recipe without image")
		return nil, nil
	}
	obj, err := s.images.Duplicate(ctx, source.Image.Location)
	if err != nil {
		return nil, fmt.Errorf("duplicate recipe image: %w", err)
	}
	return &domain.RecipeImage{Key: obj.Key, Location: obj.Location}, nil
}

// findTitle returns base, or "base (n)" with the smallest n >= 2 the user does not own yet
func (s *recipeShareService) findTitle(ctx context.Context, userID, base string) (string, error) {
	for n := 1; n <= maxTitleAttempts; n++ {
		title := base
		if n > 1 {
			title = fmt.Sprintf("%s (%d)", base, n)
		}
		exists, err := s.recipeRepo.TitleExists(ctx, userID, title)
		if err != nil {
			return "", err
		}
		if !exists {
			return title, nil
		}
	}
	return "", common.ErrTitleExhausted
}
