package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSaveAndRenderCounters(t *testing.T) {
	r := New()
	r.Save(SaveStored)
	r.Save(SaveStored)
	r.Save(SaveDenied)
	r.Render("raw", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Saves.WithLabelValues(SaveStored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Saves.WithLabelValues(SaveDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Renders.WithLabelValues("raw", "true")))
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.Save(SaveFailed)
		r.Render("display", false)
	})
}

func TestHandler(t *testing.T) {
	r := New()
	r.Save(SaveThrottled)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `figcaption_caption_saves_total{outcome="throttled"} 1`))
}
