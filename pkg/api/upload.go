package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
)

// UploadResponse is the media host's reply to a direct upload
type UploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// Filename returns the trailing path segment of the secure URL. That
// suffix is what gets persisted server-side; the full URL is rebuilt
// against the media host prefix on display.
func (r *UploadResponse) Filename() string {
	idx := strings.LastIndex(r.SecureURL, "/")
	if idx < 0 {
		return r.SecureURL
	}
	return r.SecureURL[idx+1:]
}

// UploadImage uploads a local image file directly to the media host
// using the fixed unsigned preset.
func UploadImage(ctx context.Context, filePath string) (*UploadResponse, error) {
	logger.Debug("Uploading image", "file_path", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	if err := writer.WriteField("upload_preset", config.GetString("media.upload_preset")); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	var result UploadResponse
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetHeader("Content-Type", writer.FormDataContentType()).
		SetBody(body.Bytes()).
		SetResult(&result).
		Post(config.GetString("media.upload_url"))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	logger.Debug("Image uploaded", "secure_url", result.SecureURL)
	return &result, nil
}
