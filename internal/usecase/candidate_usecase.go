package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	"veridia-hiring-backend/pkg/logger"
	"veridia-hiring-backend/pkg/security"
	"veridia-hiring-backend/pkg/storage"

	"golang.org/x/image/draw"
)

// Profile photos are downscaled so the longest edge is at most this.
const maxPhotoDimension = 512

type candidateUsecase struct {
	userRepo domain.UserRepository
	files    domain.FileStore
}

func NewCandidateUsecase(userRepo domain.UserRepository, files domain.FileStore) domain.CandidateUsecase {
	return &candidateUsecase{userRepo: userRepo, files: files}
}

// UpdateProfile changes the display name and email of the current user.
func (u *candidateUsecase) UpdateProfile(ctx context.Context, userID int64, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperror.BadRequest("Name and email are required")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	if email != user.Email {
		exists, err := u.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if exists {
			return nil, apperror.Conflict("Email already exists")
		}
	}

	user.Name = name
	user.Email = email
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// UploadPhoto validates, downscales and stores a profile photo, then saves
// the reference on the user.
func (u *candidateUsecase) UploadPhoto(ctx context.Context, userID int64, upload *domain.FileUpload) (string, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.NotFound("User not found")
	}

	result := security.ValidatePhoto(upload.Filename, upload.Size, upload.Data, upload.ContentType)
	if !result.Valid {
		return "", apperror.BadRequest("Photo rejected: " + result.Error)
	}

	data := downscale(upload.Filename, upload.Data)

	stored, err := u.files.SavePhoto(user.Email, upload.Filename, data)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePhoto(ctx, userID, stored); err != nil {
		return "", apperror.Internal(err)
	}
	return stored, nil
}

func (u *candidateUsecase) GetPhoto(ctx context.Context, filename string) ([]byte, error) {
	data, err := u.files.ReadPhoto(filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, apperror.NotFound("Photo not found")
		}
		return nil, apperror.Internal(err)
	}
	return data, nil
}

// downscale bounds the image to maxPhotoDimension on its longest edge.
// Formats we cannot re-encode (webp) and anything that fails to decode are
// stored as uploaded.
func downscale(filename string, data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Log.Warn("Photo decode failed, storing original", "file", filepath.Base(filename), "error", err)
		return data
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxPhotoDimension && h <= maxPhotoDimension {
		return data
	}

	if w >= h {
		h = h * maxPhotoDimension / w
		w = maxPhotoDimension
	} else {
		w = w * maxPhotoDimension / h
		h = maxPhotoDimension
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		logger.Log.Warn("Photo encode failed, storing original", "error", err)
		return data
	}
	return buf.Bytes()
}
