package services

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baesapp/arcade_api/shared"
)

func TestMediaIsAllowedType(t *testing.T) {
	svc := &MediaService{
		config: &ConfigService{
			allowedFileTypes: []string{"jpg", "jpeg", "png", "gif", "webp"},
		},
	}

	assert.True(t, svc.isAllowedType("png"))
	assert.True(t, svc.isAllowedType("webp"))
	assert.False(t, svc.isAllowedType("exe"))
	assert.False(t, svc.isAllowedType("svg"))
	assert.False(t, svc.isAllowedType(""))
}

func TestUploadGameImage_PolicyRejections(t *testing.T) {
	svc := &MediaService{
		config: &ConfigService{
			maxFileSizeMB:    10,
			allowedFileTypes: []string{"jpg", "jpeg", "png", "gif", "webp"},
		},
	}

	// Disallowed extension is rejected before the object store is touched.
	_, err := svc.UploadGameImage("pong", &multipart.FileHeader{
		Filename: "payload.exe",
		Size:     1024,
	})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	// Oversized files too.
	_, err = svc.UploadGameImage("pong", &multipart.FileHeader{
		Filename: "huge.png",
		Size:     11 * 1024 * 1024,
	})
	require.Error(t, err)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestDeleteGameImage_RejectsForeignPrefix(t *testing.T) {
	svc := &MediaService{}

	err := svc.DeleteGameImage("../etc/passwd")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}
