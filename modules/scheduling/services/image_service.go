package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type ImageService struct {
	repo            image.Repository
	eventRepo       event.Repository
	shotRequestRepo shotrequest.Repository
	uploadsPath     string
	publisher       eventbus.EventBus
}

func NewImageService(
	repo image.Repository,
	eventRepo event.Repository,
	shotRequestRepo shotrequest.Repository,
	uploadsPath string,
	publisher eventbus.EventBus,
) *ImageService {
	return &ImageService{
		repo:            repo,
		eventRepo:       eventRepo,
		shotRequestRepo: shotRequestRepo,
		uploadsPath:     uploadsPath,
		publisher:       publisher,
	}
}

func (s *ImageService) GetAll(ctx context.Context) ([]*image.Image, error) {
	return s.repo.GetAll(ctx)
}

func (s *ImageService) GetByID(ctx context.Context, id uint) (*image.Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrImageNotFound) {
			return nil, serrors.NewNotFound("IMAGE_NOT_FOUND", "image not found")
		}
		return nil, serrors.NewInternal("failed to load image", err)
	}
	return img, nil
}

// Create stores an image record with file and thumbnail paths derived from
// the filename under the uploads root.
func (s *ImageService) Create(ctx context.Context, img *image.Image) (*image.Image, error) {
	img.DerivePaths(s.uploadsPath)

	var created *image.Image
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if img.EventID != nil {
			if _, err := s.eventRepo.GetByID(txCtx, *img.EventID); err != nil {
				if errors.Is(err, persistence.ErrEventNotFound) {
					return serrors.NewValidation("EVENT_NOT_FOUND", "the referenced event does not exist")
				}
				return serrors.NewInternal("failed to check event", err)
			}
		}
		if img.ShotRequestID != nil {
			exists, err := s.shotRequestRepo.Exists(txCtx, *img.ShotRequestID)
			if err != nil {
				return serrors.NewInternal("failed to check shot request", err)
			}
			if !exists {
				return serrors.NewValidation("SHOT_REQUEST_NOT_FOUND", "the referenced shot request does not exist")
			}
		}

		var err error
		created, err = s.repo.Create(txCtx, img)
		if err != nil {
			return serrors.NewInternal("failed to create image", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ImageCreatedEvent{Image: created})
	return created, nil
}

func (s *ImageService) Update(ctx context.Context, id uint, patch image.Patch) (*image.Image, error) {
	var updated *image.Image
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		img, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		img.Apply(patch)
		if patch.Filename != nil {
			img.DerivePaths(s.uploadsPath)
		}
		updated, err = s.repo.Update(txCtx, img)
		if err != nil {
			return serrors.NewInternal("failed to update image", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ImageUpdatedEvent{Image: updated})
	return updated, nil
}

func (s *ImageService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete image", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(ImageDeletedEvent{ImageID: id})
	return nil
}
