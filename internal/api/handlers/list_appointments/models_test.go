package list_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListRequest(t *testing.T) {
	query := url.Values{
		"startDate":       {"2025-06-01"},
		"endDate":         {"2025-06-30"},
		"agentId":         {"3"},
		"status":          {"confirmed"},
		"includeInactive": {"true"},
	}

	req, err := ParseListRequest(1, query, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, int64(1), req.TenantID)
	assert.Equal(t, 1, req.StartDate.Day())
	assert.Equal(t, 30, req.EndDate.Day())
	assert.Equal(t, int64(3), *req.AgentID)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeInactive)
	assert.False(t, req.TenantLevel)
}

func TestParseListRequest_Empty(t *testing.T) {
	req, err := ParseListRequest(1, url.Values{}, time.UTC)
	require.NoError(t, err)

	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Nil(t, req.AgentID)
	assert.Nil(t, req.Status)
}

func TestParseListRequest_Invalid(t *testing.T) {
	tests := map[string]url.Values{
		"visitor date format": {"startDate": {"01/06/2025"}},
		"agent not a number":  {"agentId": {"abc"}},
		"agent zero":          {"agentId": {"0"}},
		"tenantLevel garbage": {"tenantLevel": {"maybe"}},
	}

	for name, query := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListRequest(1, query, time.UTC)
			assert.Error(t, err)
		})
	}
}
