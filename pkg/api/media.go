package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetPostMedia retrieves the media attachments of a post
func GetPostMedia(ctx context.Context, postID string) ([]Media, error) {
	logger.Debug("Fetching media", "post_id", postID)

	var media []Media
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&media).
		Get(fmt.Sprintf("/media/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}

	return media, nil
}

// FullImageURL resolves a possibly-relative media reference against the
// media host prefix. Empty references fall back to the default avatar.
func FullImageURL(ref string) string {
	if ref == "" {
		return config.GetString("media.default_avatar")
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return config.GetString("media.base_url") + ref
}
