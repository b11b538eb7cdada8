package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments/models"
)

// ParseListRequest разбирает query параметры
// startDate, endDate (YYYY-MM-DD), status, agentId, tenantLevel, includeInactive
func ParseListRequest(tenantID int64, query url.Values, loc *time.Location) (*models.ListRequest, error) {
	req := &models.ListRequest{TenantID: tenantID}

	var err error
	if req.StartDate, err = parseDate(query.Get("startDate"), loc); err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	if req.EndDate, err = parseDate(query.Get("endDate"), loc); err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	if raw := query.Get("agentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("agentId: invalid value %q", raw)
		}
		req.AgentID = &id
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if req.TenantLevel, err = parseBool(query.Get("tenantLevel")); err != nil {
		return nil, fmt.Errorf("tenantLevel: %w", err)
	}
	if req.IncludeInactive, err = parseBool(query.Get("includeInactive")); err != nil {
		return nil, fmt.Errorf("includeInactive: %w", err)
	}

	return req, nil
}

func parseDate(raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
