package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/index"
	"github.com/weiawesome/wes-dashboard/internal/naming"
	"github.com/weiawesome/wes-dashboard/internal/repository"
	"github.com/weiawesome/wes-dashboard/pkg/log"
	"github.com/weiawesome/wes-dashboard/pkg/storage"
)

// ErrValidation marks a rejected submission; nothing has been stored.
var ErrValidation = errors.New("validation failed")

// fallbackZone is used when the named timezone cannot be loaded.
var fallbackZone = time.FixedZone("UTC+09:00", 9*60*60)

// LoadLocation loads the named zone, falling back to a fixed UTC+9 offset
// when zone data is unavailable.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Str("timezone", name).Msg("timezone unavailable, using fixed UTC+09:00")
		return fallbackZone
	}
	return loc
}

type itemServiceImpl struct {
	repo        repository.ItemRepository
	index       index.Store
	images      storage.Storage
	names       naming.Generator
	imagePrefix string
	loc         *time.Location
	now         func() time.Time
}

// NewItemService creates an ItemService. Images are stored in images under
// imagePrefix with names drawn from names; timestamps are taken in loc.
func NewItemService(
	repo repository.ItemRepository,
	store index.Store,
	images storage.Storage,
	names naming.Generator,
	imagePrefix string,
	loc *time.Location,
) ItemService {
	if loc == nil {
		loc = fallbackZone
	}
	return &itemServiceImpl{
		repo:        repo,
		index:       store,
		images:      images,
		names:       names,
		imagePrefix: imagePrefix,
		loc:         loc,
		now:         time.Now,
	}
}

// CreateItem stores the image (if any), inserts the row, then indexes it.
// The three writes are not transactional: a stored image survives a failed
// insert, and a failed index write leaves the item created but unsearchable
// until it is indexed again.
func (s *itemServiceImpl) CreateItem(ctx context.Context, in *domain.CreateItemInput) (*domain.ItemResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	// Finish the writes even if the client goes away.
	ctx = context.WithoutCancel(ctx)
	l := log.Ctx(ctx)

	item := &domain.Item{
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   s.now().In(s.loc).Truncate(time.Microsecond),
	}

	if in.Image != nil && in.Image.Filename != "" {
		path, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		item.ImagePath = &path
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if err := s.index.Index(ctx, item.ID, item.ToIndexDocument()); err != nil {
		l.Warn().Err(err).Int64(log.FieldItemID, item.ID).Msg("item created but not indexed")
	}

	resp := item.ToResponse()
	return &resp, nil
}

func (s *itemServiceImpl) saveImage(ctx context.Context, img *domain.ImageUpload) (string, error) {
	key, err := naming.ObjectKey(s.names, s.imagePrefix, img.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to name image: %w", err)
	}

	if err := s.images.Put(ctx, key, img.Content, img.Size, img.ContentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldImagePath, key).Msg("image stored")
	return key, nil
}

func validate(in *domain.CreateItemInput) error {
	if in == nil || in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if n := utf8.RuneCountInString(in.Title); n > domain.MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters, got %d", ErrValidation, domain.MaxTitleLength, n)
	}
	return nil
}
