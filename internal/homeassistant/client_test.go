// AngelaMos | 2026
// client_test.go

package homeassistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/config"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

func TestListEntities(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "Ceiling", "type": "light", "status": "on"},
			{"name": "Thermostat", "type": "climate"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(config.HomeAssistantConfig{
		URL:          srv.URL + "/",
		Token:        "ha-token",
		EntitiesPath: "/api/entities",
		Timeout:      time.Second,
	})

	entities, err := client.ListEntities(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer ha-token", gotAuth)
	assert.Equal(t, "/api/entities", gotPath)
	assert.Equal(t, []Entity{
		{Name: "Ceiling", Type: "light", Status: "on"},
		{Name: "Thermostat", Type: "climate", Status: "unknown"},
	}, entities)
}

func TestListEntitiesWrappedObject(t *testing.T) {
	entities, err := parseEntities([]byte(`{"entities":[{"name":"Fan","type":"fan","status":null}]}`))
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "unknown", entities[0].Status)
}

func TestListEntitiesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(config.HomeAssistantConfig{URL: srv.URL, EntitiesPath: "/api/entities"})

	_, err := client.ListEntities(context.Background())
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestListEntitiesInvalidBody(t *testing.T) {
	_, err := parseEntities([]byte(`not json`))
	assert.ErrorIs(t, err, core.ErrUpstream)

	_, err = parseEntities([]byte(`{"count": 2}`))
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestListEntitiesNotConfigured(t *testing.T) {
	client := NewClient(config.HomeAssistantConfig{})
	assert.False(t, client.Configured())

	_, err := client.ListEntities(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, core.ErrUpstream)
}
