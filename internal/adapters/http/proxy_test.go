package http

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/melih/slipway/internal/adapters/store"
	"github.com/melih/slipway/internal/core/domain"
)

func proxyApp(containers *mockContainers) *fiber.App {
	h := NewHandler(containers, new(mockBuilder), store.NewMemory())
	return NewRouter(h, NewProxyHandler(containers))
}

func hostRequest(host string) *nethttp.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.Host = host
	return req
}

func TestProxyReachesRunningApp(t *testing.T) {
	backend := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("stub app response"))
	}))
	defer backend.Close()

	u, err := url.Parse(backend.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	containers := new(mockContainers)
	containers.On("ListContainers", mock.Anything).Return([]domain.Container{
		{ID: "c1", Name: "navigator", State: "running", IPAddress: u.Hostname(), Port: port},
	}, nil)

	resp, err := proxyApp(containers).Test(hostRequest("navigator.localhost"), 5000)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "stub app response", string(body))
}

func TestProxyUnknownAppIsNotFound(t *testing.T) {
	containers := new(mockContainers)
	containers.On("ListContainers", mock.Anything).Return([]domain.Container{}, nil)

	resp, err := proxyApp(containers).Test(hostRequest("ghost.localhost"))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestProxyStoppedAppIsNotFound(t *testing.T) {
	containers := new(mockContainers)
	containers.On("ListContainers", mock.Anything).Return([]domain.Container{
		{ID: "c1", Name: "navigator", State: "exited", IPAddress: "172.17.0.2", Port: 8000},
	}, nil)

	resp, err := proxyApp(containers).Test(hostRequest("navigator.localhost"))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

// A matching container without a known application port must be treated
// like an absent app, not proxied to port 0.
func TestProxyPortlessAppIsNotFound(t *testing.T) {
	containers := new(mockContainers)
	containers.On("ListContainers", mock.Anything).Return([]domain.Container{
		{ID: "c1", Name: "navigator", State: "running", IPAddress: "172.17.0.2", Port: 0},
	}, nil)

	resp, err := proxyApp(containers).Test(hostRequest("navigator.localhost"))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestProxySkipsBareHost(t *testing.T) {
	containers := new(mockContainers)

	// No subdomain: the proxy steps aside and the API routes answer.
	resp, err := proxyApp(containers).Test(hostRequest("localhost"))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	containers.AssertNotCalled(t, "ListContainers")
}
