package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

// MediaService validates and stores game imagery uploaded through the
// admin surface. Size and extension policy come from configuration.
type MediaService struct {
	context.DefaultService

	config   *ConfigService
	minioSvc *MinIOService
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// UploadGameImage stores an image under games/<slug>/ and returns its
// public URL.
func (svc *MediaService) UploadGameImage(gameSlug string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !svc.isAllowedType(ext) {
		return nil, shared.NewBadRequestError(nil,
			fmt.Sprintf("Invalid file format. Supported: %s", strings.Join(svc.config.AllowedFileTypes(), ", ")))
	}

	if file.Size > svc.config.MaxFileSizeBytes() {
		return nil, shared.NewBadRequestError(nil,
			fmt.Sprintf("File too large. Maximum size: %dMB", svc.config.MaxFileSizeBytes()/(1024*1024)))
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to read upload")
	}
	defer src.Close()

	id, _ := uuid.NewV7()
	objectName := fmt.Sprintf("games/%s/%d_%s.%s", gameSlug, time.Now().Unix(), id.String(), ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := svc.minioSvc.UploadFile(objectName, src, file.Size, contentType)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to store upload")
	}

	log.WithFields(log.Fields{
		"object": objectName,
		"size":   info.Size,
	}).Info("Game image uploaded")

	return &dto.MediaUploadResponse{
		URL:         svc.minioSvc.PublicURL(objectName),
		ObjectName:  objectName,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

func (svc *MediaService) DeleteGameImage(objectName string) error {
	if !strings.HasPrefix(objectName, "games/") {
		return shared.NewBadRequestError(nil, "invalid object name")
	}
	if err := svc.minioSvc.DeleteFile(objectName); err != nil {
		return shared.NewInternalError(err, "failed to delete object")
	}
	return nil
}

func (svc *MediaService) isAllowedType(ext string) bool {
	for _, t := range svc.config.AllowedFileTypes() {
		if ext == t {
			return true
		}
	}
	return false
}
