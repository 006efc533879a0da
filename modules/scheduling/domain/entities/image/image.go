package image

import (
	"context"
	"path"
)

// Image is a deliverable frame. It belongs optionally to one event and/or
// one shot request and dies with either parent.
type Image struct {
	ID            uint
	Filename      string
	FilePath      string
	ThumbnailPath string
	ClientSelect  bool
	Favorite      bool
	UploadDate    string
	FileSize      *int64
	EventID       *uint
	ShotRequestID *uint
}

// DerivePaths computes file and thumbnail locations from the filename under
// the configured uploads root.
func (i *Image) DerivePaths(uploadsRoot string) {
	i.FilePath = path.Join(uploadsRoot, i.Filename)
	i.ThumbnailPath = path.Join(uploadsRoot, "thumbs", i.Filename)
}

type Patch struct {
	Filename     *string
	ClientSelect *bool
	Favorite     *bool
	UploadDate   *string
	FileSize     *int64
}

func (i *Image) Apply(p Patch) {
	if p.Filename != nil {
		i.Filename = *p.Filename
	}
	if p.ClientSelect != nil {
		i.ClientSelect = *p.ClientSelect
	}
	if p.Favorite != nil {
		i.Favorite = *p.Favorite
	}
	if p.UploadDate != nil {
		i.UploadDate = *p.UploadDate
	}
	if p.FileSize != nil {
		i.FileSize = p.FileSize
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Image, error)
	GetByID(ctx context.Context, id uint) (*Image, error)
	Create(ctx context.Context, img *Image) (*Image, error)
	Update(ctx context.Context, img *Image) (*Image, error)
	Delete(ctx context.Context, id uint) error
	DeleteByEvent(ctx context.Context, eventID uint) (int64, error)
	DeleteByEvents(ctx context.Context, eventIDs []uint) (int64, error)
	DeleteByShotRequest(ctx context.Context, shotRequestID uint) (int64, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
}
