package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestSetLeadsByStage_ZeroFillsMissingStages(t *testing.T) {
	SetLeadsByStage(map[entity.Stage]int{entity.StageNew: 4})

	assert.Equal(t, 4.0, testutil.ToFloat64(leadsByStage.WithLabelValues("new")))
	assert.Equal(t, 0.0, testutil.ToFloat64(leadsByStage.WithLabelValues("project")))
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads/abc-123", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "418"))

	assert.Equal(t, before+1, after)
}

func TestRecordStageTransition(t *testing.T) {
	c := stageTransitions.WithLabelValues("contacted", "applied")
	before := testutil.ToFloat64(c)

	RecordStageTransition(entity.StageContacted, "applied")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
