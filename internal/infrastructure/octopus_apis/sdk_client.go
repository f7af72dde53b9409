package octopus_apis

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	octopusApiClient "github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/client"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/core"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/environments"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/projects"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/spaces"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/tagsets"
	"github.com/OctopusDeploy/go-octopusdeploy/v2/pkg/tenants"
	"github.com/samber/lo"
)

// sdkResources is the part of the go-octopusdeploy client the name lookups read from
type sdkResources interface {
	GetAllProjects() ([]*projects.Project, error)
	GetAllEnvironments() ([]*environments.Environment, error)
	GetAllTenants() ([]*tenants.Tenant, error)
	GetAllTagSets() ([]*tagsets.TagSet, error)
	GetAllSpaces() ([]*spaces.Space, error)
}

// sdkClient creates the go-octopusdeploy client on first use. Creating the client reads the API root
// from the server, so a server that can not be reached is retried on the next lookup.
type sdkClient struct {
	serverUrl  *url.URL
	apiKey     string
	spaceId    string
	httpClient *http.Client
	mutex      sync.Mutex
	client     *octopusApiClient.Client
}

func newSdkClient(webClient *AuthenticatedWebClient) (*sdkClient, error) {
	serverUrl, err := url.Parse(webClient.ServerUrl())

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-init-octoclienterror - %w: %s", ErrInvalidServerUrl, err.Error())
	}

	return &sdkClient{
		serverUrl:  serverUrl,
		apiKey:     webClient.apiKey,
		spaceId:    webClient.SpaceId(),
		httpClient: webClient.httpClient,
	}, nil
}

func (s *sdkClient) connect() (*octopusApiClient.Client, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	octopus, err := octopusApiClient.NewClient(s.httpClient, s.serverUrl, s.apiKey, s.spaceId)

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-init-octoclienterror - failed to create the Octopus API client for %s: %w", s.serverUrl, translateSdkError(err))
	}

	s.client = octopus
	return s.client, nil
}

func (s *sdkClient) GetAllProjects() ([]*projects.Project, error) {
	octopus, err := s.connect()

	if err != nil {
		return nil, err
	}

	return octopus.Projects.GetAll()
}

func (s *sdkClient) GetAllEnvironments() ([]*environments.Environment, error) {
	octopus, err := s.connect()

	if err != nil {
		return nil, err
	}

	return octopus.Environments.GetAll()
}

func (s *sdkClient) GetAllTenants() ([]*tenants.Tenant, error) {
	octopus, err := s.connect()

	if err != nil {
		return nil, err
	}

	return octopus.Tenants.GetAll()
}

func (s *sdkClient) GetAllTagSets() ([]*tagsets.TagSet, error) {
	octopus, err := s.connect()

	if err != nil {
		return nil, err
	}

	return octopus.TagSets.GetAll()
}

func (s *sdkClient) GetAllSpaces() ([]*spaces.Space, error) {
	octopus, err := s.connect()

	if err != nil {
		return nil, err
	}

	return octopus.Spaces.GetAll()
}

// translateSdkError turns the error details returned by the SDK into an OctopusApiError, so SDK and
// web client failures are reported the same way
func translateSdkError(err error) error {
	var apiErr *core.APIError
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}

	message := formatErrors(apiErr.ErrorMessage, apiErr.Errors)
	if message == "" {
		message = http.StatusText(apiErr.StatusCode)
	}

	return &OctopusApiError{
		StatusCode: apiErr.StatusCode,
		Method:     http.MethodGet,
		Url:        "go-octopusdeploy",
		Message:    message,
	}
}

// formatErrors puts the message first, followed by one " - " prefixed line per detail
func formatErrors(message string, details []string) string {
	lines := lo.Map(details, func(item string, index int) string {
		return " - " + item
	})

	if message != "" {
		lines = append([]string{message}, lines...)
	}

	return strings.Join(lines, "\n")
}
