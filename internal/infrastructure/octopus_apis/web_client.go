package octopus_apis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/jsonex"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/retry_config"
	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const ApiKeyHeader = "X-Octopus-ApiKey"

var ErrInvalidServerUrl = errors.New("the Octopus server URL is invalid")
var ErrMissingApiKey = errors.New("the Octopus API key is missing")

// OctopusApiError is returned when the Octopus server responds with a non-success status code
type OctopusApiError struct {
	StatusCode int
	Method     string
	Url        string
	Message    string
}

func (e *OctopusApiError) Error() string {
	return fmt.Sprintf("Octopus returned HTTP %d for %s %s: %s", e.StatusCode, e.Method, e.Url, e.Message)
}

type WebClientOptions struct {
	HttpClient *http.Client
	// CacheDuration is how long project, environment, tenant, tag set and space lists are reused for.
	// Zero disables the cache.
	CacheDuration time.Duration
	Logger        apploggers.AppLogger
}

// AuthenticatedWebClient sends requests to the Octopus API with the API key header attached
type AuthenticatedWebClient struct {
	serverUrl  *url.URL
	apiKey     string
	spaceId    string
	httpClient *http.Client
	logger     apploggers.AppLogger
}

func NewAuthenticatedWebClient(serverUrl string, apiKey string, spaceId string, options WebClientOptions) (*AuthenticatedWebClient, error) {
	parsedUrl, err := url.Parse(strings.TrimSpace(serverUrl))

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-webclient-urlerror - %w: %s", ErrInvalidServerUrl, err.Error())
	}

	if (parsedUrl.Scheme != "http" && parsedUrl.Scheme != "https") || parsedUrl.Host == "" {
		return nil, fmt.Errorf("octobuildstep-webclient-urlerror - %w: %q must be an absolute http or https URL", ErrInvalidServerUrl, serverUrl)
	}

	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("octobuildstep-webclient-apikeyerror - %w", ErrMissingApiKey)
	}

	parsedUrl.Path = strings.TrimSuffix(parsedUrl.Path, "/")
	parsedUrl.RawQuery = ""

	httpClient := options.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	logger := options.Logger
	if logger == nil {
		logger = apploggers.NewNopLogger()
	}

	return &AuthenticatedWebClient{
		serverUrl:  parsedUrl,
		apiKey:     strings.TrimSpace(apiKey),
		spaceId:    strings.TrimSpace(spaceId),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *AuthenticatedWebClient) ServerUrl() string {
	return c.serverUrl.String()
}

func (c *AuthenticatedWebClient) SpaceId() string {
	return c.spaceId
}

// SpacePath returns the API path of a resource, scoped to the space if one was supplied
func (c *AuthenticatedWebClient) SpacePath(resource string) string {
	resource = strings.TrimPrefix(resource, "/")

	if c.spaceId == "" {
		return "/api/" + resource
	}

	return "/api/" + url.PathEscape(c.spaceId) + "/" + resource
}

// Get returns the body of a successful GET request. Responses are never cached.
func (c *AuthenticatedWebClient) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestUrl, err := c.resolve(path, query)

	if err != nil {
		return nil, err
	}

	var body []byte
	options := append([]retry.Option{
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	}, retry_config.RetryOptions...)

	err = retry.Do(
		func() error {
			var err error
			body, err = c.send(ctx, http.MethodGet, requestUrl, nil)
			return err
		}, options...)

	if err != nil {
		return nil, err
	}

	return body, nil
}

func (c *AuthenticatedWebClient) GetJson(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.Get(ctx, path, query)

	if err != nil {
		return err
	}

	return jsonex.DeserializeJsonBytes(body, result)
}

// Post sends the body as JSON. POST requests are not retried.
func (c *AuthenticatedWebClient) Post(ctx context.Context, path string, body any) ([]byte, error) {
	requestUrl, err := c.resolve(path, nil)

	if err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(body)

	if err != nil {
		return nil, fmt.Errorf("failed to serialize the request body for %s: %w", requestUrl, err)
	}

	return c.send(ctx, http.MethodPost, requestUrl, bodyBytes)
}

func (c *AuthenticatedWebClient) PostJson(ctx context.Context, path string, body any, result any) error {
	responseBody, err := c.Post(ctx, path, body)

	if err != nil {
		return err
	}

	return jsonex.DeserializeJsonBytes(responseBody, result)
}

func (c *AuthenticatedWebClient) send(ctx context.Context, method string, requestUrl string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestUrl, bodyReader)

	if err != nil {
		return nil, err
	}

	request.Header.Set(ApiKeyHeader, c.apiKey)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	c.logger.GetLogger().Debug("Octopus API request", zap.String("method", method), zap.String("url", requestUrl))

	response, err := c.httpClient.Do(request)

	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)

	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := GetErrorsFromResponse(string(responseBody))
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}

		return nil, &OctopusApiError{
			StatusCode: response.StatusCode,
			Method:     method,
			Url:        requestUrl,
			Message:    message,
		}
	}

	return responseBody, nil
}

// resolve turns an API path, or a link returned by the server, into an absolute URL. Links already
// carrying the server's virtual directory are not prefixed twice.
func (c *AuthenticatedWebClient) resolve(path string, query url.Values) (string, error) {
	relative, err := url.Parse(path)

	if err != nil {
		return "", fmt.Errorf("failed to parse the API path %q: %w", path, err)
	}

	resolved := *c.serverUrl

	if relative.IsAbs() {
		resolved = *relative
	} else if c.serverUrl.Path != "" && strings.HasPrefix(relative.Path, c.serverUrl.Path+"/") {
		resolved.Path = relative.Path
	} else {
		resolved.Path = c.serverUrl.Path + "/" + strings.TrimPrefix(relative.Path, "/")
	}

	values := relative.Query()
	for key, items := range query {
		for _, item := range items {
			values.Add(key, item)
		}
	}
	resolved.RawQuery = values.Encode()

	return resolved.String(), nil
}

// isRetryable reports whether a failed GET is worth repeating: network errors, server errors and
// throttling are, client errors are not
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *OctopusApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}
