package ltmhttp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/analysis"
	"github.com/simlin/ltm/internal/ltmhttp"
	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

func buildAnalysis(t *testing.T) (*analysis.Analysis, partition.Partition) {
	t.Helper()
	b := model.NewBuilder()
	_, err := b.DeclareStock("s")
	require.NoError(t, err)
	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) { return in[0], nil }, "s")
	require.NoError(t, err)
	require.NoError(t, b.SetInitial("s", func(in []float64) (float64, error) { return 0, nil }))
	require.NoError(t, b.SetFlows("s", []string{"adjust"}, nil, false))
	m, err := b.Compile()
	require.NoError(t, err)

	part := partition.Compute(m)[0]
	a := analysis.New(m, []partition.Partition{part})
	loop := loopdiscovery.Loop{ID: 0, PartitionID: part.ID, Variables: part.Variables, Edges: []int{0, 1}}
	a.RecordStep(analysis.StepSnapshot{
		Links: make([]linkscore.Record, m.NumEdges()),
		Partitions: map[int]analysis.PartitionSnapshot{
			part.ID: {
				Loops:    []loopdiscovery.Loop{loop},
				Raw:      []float64{-0.5},
				Relative: []float64{-1.0},
				Dominant: []int{0},
			},
		},
	})
	return a, part
}

func TestServer_HealthReportsStepCount(t *testing.T) {
	a, _ := buildAnalysis(t)
	s := ltmhttp.NewServer(":0", a, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["steps"])
}

func TestServer_LoopsReturnsLatestStepByDefault(t *testing.T) {
	a, part := buildAnalysis(t)
	s := ltmhttp.NewServer(":0", a, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/partitions/"+strconv.Itoa(part.ID)+"/loops", nil)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var loops []loopdiscovery.Loop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loops))
	require.Len(t, loops, 1)
}

func TestServer_DominantUnknownStepReturnsNotFound(t *testing.T) {
	a, part := buildAnalysis(t)
	s := ltmhttp.NewServer(":0", a, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/partitions/"+strconv.Itoa(part.ID)+"/dominant?step=99", nil)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
