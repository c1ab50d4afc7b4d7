package backend

import (
	"context"
	"net/http"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

type AnalyticsService struct {
	Client *Client
}

func (s *AnalyticsService) DashboardStats(ctx context.Context, token string) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.Client.do(ctx, http.MethodGet, "/admin/stats", token, nil, &stats)
	return stats, err
}
