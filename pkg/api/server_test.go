package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adjust/rmq/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/denmhazard/pkg/denm"
	"github.com/travigo/denmhazard/pkg/realtime"
	"github.com/travigo/denmhazard/pkg/usecase"
)

func testAuthentication(c *fiber.Ctx) error {
	if c.Get("Authorization") != "Bearer test" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.Next()
}

type testServer struct {
	app        *fiber.App
	connection rmq.TestConnection
	lookups    []string
}

func newTestServer(t *testing.T) *testServer {
	server := &testServer{connection: rmq.NewTestConnection()}

	scenarioQueue, err := server.connection.OpenQueue(realtime.ScenarioQueue)
	require.NoError(t, err)

	server.app = NewServer(ServerOptions{
		UseCases:      usecase.DefaultConfigs(),
		ScenarioQueue: scenarioQueue,
		FindWarnings: func(ctx context.Context, stationID string, limit int64) ([]realtime.WarningRecord, error) {
			server.lookups = append(server.lookups, stationID)
			return []realtime.WarningRecord{
				{
					PrimaryIdentifier: "DENMHAZARD:WARNING:1",
					StationID:         stationID,
					UseCase:           "EVW",
					Level:             "level1",
					HostLatitude:      17.5941,
				},
			}, nil
		},
		Authentication: testAuthentication,
	})

	return server
}

func (s *testServer) request(t *testing.T, method string, target string, body any, headers map[string]string) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, responseBody
}

func TestVersion(t *testing.T) {
	server := newTestServer(t)

	resp, body := server.request(t, http.MethodGet, "/core/version", nil, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"version":"v0.1"`)
}

func TestAssess(t *testing.T) {
	server := newTestServer(t)

	resp, body := server.request(t, http.MethodPost, "/core/assess", fiber.Map{
		"use_case": "EVW",
		"host":     fiber.Map{"latitude": 17.5941, "longitude": 78.1252, "heading": 0, "speed": 10},
		"alert":    fiber.Map{"latitude": 17.5951, "longitude": 78.1252},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var assessment usecase.Assessment
	require.NoError(t, json.Unmarshal(body, &assessment))
	assert.Equal(t, usecase.EmergencyVehicleWarning, assessment.UseCase)
	assert.True(t, assessment.Decision.Triggered)
	assert.Equal(t, denm.HazardLevel1, assessment.Decision.Level)
	assert.InDelta(t, 111.19, assessment.Geometry.DistanceMeters, 0.1)
}

func TestAssessErrors(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown use-case", fiber.Map{"use_case": "XYZ"}, http.StatusNotFound},
		{"transmit only", fiber.Map{"use_case": "SV"}, http.StatusUnprocessableEntity},
		{"malformed", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := server.request(t, http.MethodPost, "/core/assess", tt.body, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestStationWarnings(t *testing.T) {
	server := newTestServer(t)

	resp, body := server.request(t, http.MethodGet, "/core/stations/host/warnings", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "host", records[0]["station_id"])
	assert.Equal(t, "level1", records[0]["level"])
	assert.NotContains(t, records[0], "host_latitude")

	resp, body = server.request(t, http.MethodGet, "/core/stations/host/warnings?detailed=true", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detailed []map[string]any
	require.NoError(t, json.Unmarshal(body, &detailed))
	require.Len(t, detailed, 1)
	assert.Contains(t, detailed[0], "host_latitude")

	resp, _ = server.request(t, http.MethodGet, "/core/stations/host/warnings?limit=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, []string{"host", "host"}, server.lookups)
}

func TestStationSignal(t *testing.T) {
	server := newTestServer(t)

	resp, _ := server.request(t, http.MethodPost, "/core/stations/rww_veh/signals", fiber.Map{"signal": "RWW"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, server.connection.GetDeliveries(realtime.ScenarioQueue))

	authorised := map[string]string{"Authorization": "Bearer test"}

	resp, _ = server.request(t, http.MethodPost, "/core/stations/rww_veh/signals", fiber.Map{}, authorised)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = server.request(t, http.MethodPost, "/core/stations/rww_veh/signals", fiber.Map{"signal": "RWW"}, authorised)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	deliveries := server.connection.GetDeliveries(realtime.ScenarioQueue)
	require.Len(t, deliveries, 1)

	var signal realtime.ScenarioSignal
	require.NoError(t, json.Unmarshal([]byte(deliveries[0]), &signal))
	assert.Equal(t, realtime.ScenarioSignal{StationID: "rww_veh", Signal: "RWW"}, signal)
}
