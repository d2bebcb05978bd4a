package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// ReportUser files a moderation report against a user
func ReportUser(ctx context.Context, req ReportUserRequest) error {
	logger.Debug("Reporting user", "reported_id", req.ReportedID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		Post("/reports/user")

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to report user: %w", err)
	}

	return nil
}
