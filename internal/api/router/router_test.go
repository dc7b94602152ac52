package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalflow/clinicalflow/internal/encounter"
	"github.com/clinicalflow/clinicalflow/internal/patients"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := patients.NewInMemoryRepository(patients.SeedPatients()...)
	summarizer := encounter.NewSummarizer(nil, "", time.Second, nil, nil)
	return New(&Config{
		PatientsHandler:  patients.NewHandler(repo, nil),
		EncounterHandler: encounter.NewHandler(repo, summarizer, nil, nil, nil, nil),
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestPatientsRoutesMounted(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/patients")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/patients/pat-sarah-connor")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEncounterRoutesMounted(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/encounters/pat-sarah-connor/messages", "application/json",
		bytes.NewReader([]byte(`{"text":"init"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
