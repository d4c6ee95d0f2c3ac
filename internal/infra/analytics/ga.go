package analytics

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

// VisitorCount is the payload served by GET /api/visitor-count. IsMock is
// set when the GA property is not configured or the API call failed; the
// endpoint never propagates analytics errors.
type VisitorCount struct {
	ActiveUsers int    `json:"activeUsers"`
	Period      string `json:"period"`
	IsMock      bool   `json:"isMock,omitempty"`
}

const period = "30d"

// Client queries the GA4 Data API for the active-user count. A zero-value
// or unconfigured client serves mock data.
type Client struct {
	svc      *analyticsdata.Service
	property string
	logger   *zap.Logger
}

// New builds a client from the property ID and a service-account
// credentials JSON blob. Missing or unusable credentials degrade to the
// mock client rather than failing startup.
func New(ctx context.Context, propertyID, credentialsJSON string, logger *zap.Logger) *Client {
	c := &Client{logger: logger}
	if propertyID == "" || credentialsJSON == "" {
		return c
	}
	svc, err := analyticsdata.NewService(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		logger.Warn("analytics disabled, serving mock data", zap.Error(err))
		return c
	}
	c.svc = svc
	c.property = propertyID
	return c
}

func (c *Client) IsConfigured() bool {
	return c.svc != nil
}

// Count returns the 30-day active-user count, or the mock payload on any
// failure.
func (c *Client) Count(ctx context.Context) VisitorCount {
	if c.svc == nil {
		return VisitorCount{Period: period, IsMock: true}
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: "30daysAgo", EndDate: "today"}},
		Metrics:    []*analyticsdata.Metric{{Name: "activeUsers"}},
	}
	resp, err := c.svc.Properties.RunReport("properties/"+c.property, req).Context(ctx).Do()
	if err != nil {
		c.logger.Warn("visitor count fetch failed, serving mock data", zap.Error(err))
		return VisitorCount{Period: period, IsMock: true}
	}

	users := 0
	if len(resp.Rows) > 0 && len(resp.Rows[0].MetricValues) > 0 {
		users, _ = strconv.Atoi(resp.Rows[0].MetricValues[0].Value)
	}
	return VisitorCount{ActiveUsers: users, Period: period}
}
