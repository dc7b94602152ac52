package patients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := NewHandler(NewInMemoryRepository(SeedPatients()...), nil)
	r := chi.NewRouter()
	h.Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestListPatients(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/patients")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ListPatientsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "Harsh Dange", body.Patients[0].Name)
}

func TestGetPatient(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/patients/pat-john-wick")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p Patient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "John Wick", p.Name)
	assert.Equal(t, WelcomeProfileTrauma, p.WelcomeProfile())
}

func TestGetPatientNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/patients/pat-nobody")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
