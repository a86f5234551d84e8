package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type fakeDashboardSrv struct {
	pending   []dto.PendingVerificationEntry
	completed []models.TaqrirKhass
	stats     *dto.WorkflowStatistics
	hit       bool
	err       error
}

func (f *fakeDashboardSrv) PendingVerification(context.Context) ([]dto.PendingVerificationEntry, error) {
	return f.pending, f.err
}

func (f *fakeDashboardSrv) CompletedVerification(context.Context) ([]models.TaqrirKhass, error) {
	return f.completed, f.err
}

func (f *fakeDashboardSrv) Statistics(context.Context) (*dto.WorkflowStatistics, bool, error) {
	return f.stats, f.hit, f.err
}

type responseEnvelope struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestDashboardHandlerPending(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		pending: []dto.PendingVerificationEntry{
			{Document: &models.TaqrirKhass{ID: "doc-1"}, Progress: 50, PriorityScore: 9},
		},
	})

	c, rec := testContext(http.MethodGet, "/tashih/pending-verification", "")

	handler.Pending(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	entries, ok := envelope.Data.([]interface{})
	assert.True(t, ok)
	assert.Len(t, entries, 1)
}

func TestDashboardHandlerStatisticsMeta(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		stats: &dto.WorkflowStatistics{TotalDocuments: 4},
		hit:   true,
	})

	c, rec := testContext(http.MethodGet, "/tashih/statistics", "")

	handler.Statistics(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestDashboardHandlerStatisticsError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		err: appErrors.Wrap(assert.AnError, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count documents"),
	})

	c, rec := testContext(http.MethodGet, "/tashih/statistics", "")

	handler.Statistics(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
