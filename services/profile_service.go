package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/Debjit29092022/resto-kot-creator/utils"
)

// ErrRestaurantNameRequired is returned when a profile update has no name.
var ErrRestaurantNameRequired = errors.New("restaurant name is required")

// ProfileService reads and writes the restaurant profile singleton
type ProfileService struct {
	store  *store.Store
	images ImageService
	logger *slog.Logger
}

// NewProfileService creates the service. images may be nil, in which case
// logos live only as data URIs on the profile.
func NewProfileService(s *store.Store, images ImageService, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ProfileService{store: s, images: images, logger: logger.With("component", "profile_service")}
}

// Get returns the profile, creating the defaults on first use
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	profile, err := store.GetByID[models.Profile](ctx, s.store, models.SingletonKey)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		defaults := models.DefaultProfile()
		if err := s.store.Create(ctx, &defaults); err != nil {
			if !errors.Is(err, store.ErrConstraintViolation) {
				return nil, err
			}
			if profile, err = store.GetByID[models.Profile](ctx, s.store, models.SingletonKey); err != nil {
				return nil, err
			}
		} else {
			s.logger.Info("Created default profile", "restaurant_name", defaults.RestaurantName)
			profile = &defaults
		}
	}

	s.populateLogoURL(ctx, profile)
	return profile, nil
}

// Update replaces the editable profile fields. Logo fields are kept unless a
// new data URI is supplied.
func (s *ProfileService) Update(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if strings.TrimSpace(profile.RestaurantName) == "" {
		return nil, ErrRestaurantNameRequired
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	profile.ID = models.SingletonKey
	profile.LogoKey = current.LogoKey
	if profile.Logo == "" {
		profile.Logo = current.Logo
	}

	if err := s.store.Update(ctx, &profile); err != nil {
		return nil, err
	}
	s.populateLogoURL(ctx, &profile)
	return &profile, nil
}

// UploadLogo validates a PNG upload, stores it on the profile as a data URI
// and, when an image service is configured, in image storage as well.
func (s *ProfileService) UploadLogo(ctx context.Context, fileHeader *multipart.FileHeader) (*models.Profile, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}
	dataURI, err := utils.EncodeDataURI(fileHeader)
	if err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	oldKey := profile.LogoKey
	profile.Logo = dataURI
	if s.images != nil {
		key, err := s.images.UploadImage(ctx, fileHeader)
		if err != nil {
			return nil, err
		}
		profile.LogoKey = key
	}

	if err := s.store.Update(ctx, profile); err != nil {
		return nil, err
	}

	if s.images != nil && oldKey != "" && oldKey != profile.LogoKey {
		if err := s.images.DeleteImage(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete previous logo", "key", oldKey, "error", err)
		}
	}

	s.logger.Info("Uploaded profile logo", "key", profile.LogoKey, "size", fileHeader.Size)
	s.populateLogoURL(ctx, profile)
	return profile, nil
}

// RemoveLogo clears the logo and deletes the stored image.
func (s *ProfileService) RemoveLogo(ctx context.Context) (*models.Profile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	oldKey := profile.LogoKey
	profile.Logo = ""
	profile.LogoKey = ""
	profile.LogoURL = ""
	if err := s.store.Update(ctx, profile); err != nil {
		return nil, err
	}

	if s.images != nil && oldKey != "" {
		if err := s.images.DeleteImage(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete logo", "key", oldKey, "error", err)
		}
	}
	return profile, nil
}

func (s *ProfileService) populateLogoURL(ctx context.Context, profile *models.Profile) {
	if s.images == nil || profile.LogoKey == "" {
		return
	}
	url, err := s.images.GetImageURL(ctx, profile.LogoKey)
	if err != nil {
		s.logger.Warn("Failed to resolve logo URL", "key", profile.LogoKey, "error", err)
		return
	}
	profile.LogoURL = url
}
