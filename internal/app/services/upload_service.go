package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/filestorage"
	"github.com/sesi/membership/internal/pkg/validation"
)

// UploadService stores admin uploads such as gallery images
type UploadService interface {
	Upload(ctx context.Context, subfolder string, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type uploadServiceImpl struct {
	storage filestorage.Storage
	logger  zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage filestorage.Storage, logger zerolog.Logger) UploadService {
	return &uploadServiceImpl{storage: storage, logger: logger.With().Str("component", "uploads").Logger()}
}

// Upload validates the file like intake documents and stores it under subfolder
func (s *uploadServiceImpl) Upload(ctx context.Context, subfolder string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, "file", "file is required")
	}

	folder, err := filestorage.CleanSubfolder(subfolder)
	if err != nil {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrBadRequest, "subfolder", "invalid subfolder")
	}
	if folder == filestorage.CertificatesFolder || folder == filestorage.ApplicationsFolder {
		return nil, apperrors.NewForbiddenError("subfolder is reserved")
	}

	if err := validation.ValidateUpload("file", file.Filename, file.Size); err != nil {
		return nil, err
	}

	path, err := filestorage.SaveFileHeader(ctx, s.storage, file, folder)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnreadableUpload) {
			return nil, apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, "file", "file: "+filestorage.ErrUnreadableUpload.Error())
		}
		return nil, fmt.Errorf("error storing upload: %w", err)
	}
	s.logger.Info().Str("path", path).Int64("size", file.Size).Msg("File uploaded")

	return &dto.UploadResponse{
		Success:  true,
		Path:     path,
		Filename: file.Filename,
		Size:     file.Size,
	}, nil
}
