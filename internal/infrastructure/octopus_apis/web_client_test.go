package octopus_apis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApiKey = "API-TESTKEY"

func createTestWebClient(t *testing.T, server *httptest.Server, spaceId string) *AuthenticatedWebClient {
	client, err := NewAuthenticatedWebClient(server.URL, testApiKey, spaceId, WebClientOptions{
		HttpClient: server.Client(),
	})

	if err != nil {
		t.Fatal(err)
	}

	return client
}

func TestNewWebClientRejectsInvalidUrls(t *testing.T) {
	for _, serverUrl := range []string{"", "octopus.example.com", "ftp://octopus.example.com", "http://"} {
		_, err := NewAuthenticatedWebClient(serverUrl, testApiKey, "", WebClientOptions{})

		if !errors.Is(err, ErrInvalidServerUrl) {
			t.Fatalf("expected %q to be rejected as an invalid URL, got %v", serverUrl, err)
		}
	}
}

func TestNewWebClientRequiresApiKey(t *testing.T) {
	_, err := NewAuthenticatedWebClient("https://octopus.example.com", " ", "", WebClientOptions{})

	assert.ErrorIs(t, err, ErrMissingApiKey)
}

func TestGetSendsApiKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(ApiKeyHeader) != testApiKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		fmt.Fprint(w, `{"Name": "Octopus"}`)
	}))
	defer server.Close()

	client := createTestWebClient(t, server, "")

	body, err := client.Get(context.Background(), "/api", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"Name": "Octopus"}`, string(body))
}

func TestSpacePath(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	assert.Equal(t, "/api/projects/all", createTestWebClient(t, server, "").SpacePath("projects/all"))
	assert.Equal(t, "/api/Spaces-2/projects/all", createTestWebClient(t, server, "Spaces-2").SpacePath("/projects/all"))
}

func TestResolveWithVirtualDirectory(t *testing.T) {
	client, err := NewAuthenticatedWebClient("https://example.com/octopus/", testApiKey, "", WebClientOptions{})
	require.NoError(t, err)

	resolved, err := client.resolve("/api/projects", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/octopus/api/projects", resolved)

	// Links returned by the server already include the virtual directory
	resolved, err = client.resolve("/octopus/api/projects?skip=30&take=30", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/octopus/api/projects?skip=30&take=30", resolved)
}

func TestErrorResponsesAreParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ErrorMessage": "There was a problem with your request.", "Errors": ["Version is required"]}`)
	}))
	defer server.Close()

	client := createTestWebClient(t, server, "")

	_, err := client.Post(context.Background(), "/api/releases", map[string]string{})

	var apiErr *OctopusApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "There was a problem with your request.\n - Version is required", apiErr.Message)
}

func TestErrorResponsesWithoutDetailsUseStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := createTestWebClient(t, server, "")

	_, err := client.Get(context.Background(), "/api/missing", nil)

	var apiErr *OctopusApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := createTestWebClient(t, server, "")

	_, err := client.Get(context.Background(), "/api/projects/all", nil)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := createTestWebClient(t, server, "")

	_, err := client.Get(context.Background(), "/api/projects/all", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetIsNeverCached(t *testing.T) {
	var gets int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gets, 1)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client, err := NewAuthenticatedWebClient(server.URL, testApiKey, "", WebClientOptions{
		HttpClient:    server.Client(),
		CacheDuration: time.Minute,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "/api/projects/Projects-1/releases", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(&gets))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("connection reset")))
	assert.True(t, isRetryable(&OctopusApiError{StatusCode: http.StatusBadGateway}))
	assert.True(t, isRetryable(&OctopusApiError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, isRetryable(&OctopusApiError{StatusCode: http.StatusForbidden}))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
}
