// Package octopustest provides an in-memory OctopusClient for tests
package octopustest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"github.com/samber/lo"
)

// MockOctopusClient serves the resources it is created with. Err, when set, is returned by every call.
type MockOctopusClient struct {
	Projects     []models.Project
	Environments []models.Environment
	Channels     []models.Channel
	Tenants      []models.Tenant
	Tags         []models.Tag
	Spaces       []models.Space
	Releases     []models.Release
	Prompted     []models.PromptedVariable
	// Task is returned by WaitForTask. A nil task makes WaitForTask block until the context is done.
	Task *models.Task
	Err  error

	mutex              sync.Mutex
	CreatedReleases    []models.Release
	CreatedDeployments []models.Deployment
}

// NewMockOctopusClient returns a client holding a project with two channels and a release, two
// environments, a tenant, a tag and the default space
func NewMockOctopusClient() *MockOctopusClient {
	return &MockOctopusClient{
		Projects: []models.Project{{ID: "Projects-1", Name: "My Project"}},
		Environments: []models.Environment{
			{ID: "Environments-1", Name: "Development"},
			{ID: "Environments-2", Name: "Production"},
		},
		Channels: []models.Channel{
			{ID: "Channels-1", Name: "Default", IsDefault: true, ProjectID: "Projects-1"},
			{ID: "Channels-2", Name: "Hotfix", ProjectID: "Projects-1"},
		},
		Tenants:  []models.Tenant{{ID: "Tenants-1", Name: "Acme"}},
		Tags:     []models.Tag{{ID: "Tags-1", Name: "East", CanonicalTagName: "Region/East"}},
		Spaces:   []models.Space{{ID: "Spaces-1", Name: "Default", IsDefault: true}},
		Releases: []models.Release{{ID: "Releases-1", Version: "1.0.0", ProjectID: "Projects-1", ChannelID: "Channels-1"}},
		Task: &models.Task{
			ID:                   "ServerTasks-1",
			State:                models.TaskStateSuccess,
			IsCompleted:          true,
			FinishedSuccessfully: true,
		},
	}
}

func findByName[T any](items []T, name string, ignoreCase bool, getName func(item T) string) *T {
	if item, found := lo.Find(items, func(item T) bool { return getName(item) == name }); found {
		return &item
	}

	if item, found := lo.Find(items, func(item T) bool { return strings.EqualFold(getName(item), name) }); found && ignoreCase {
		return &item
	}

	return nil
}

func (m *MockOctopusClient) GetProjectByName(ctx context.Context, name string, ignoreCase bool) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return findByName(m.Projects, name, ignoreCase, func(item models.Project) string { return item.Name }), nil
}

func (m *MockOctopusClient) GetEnvironmentByName(ctx context.Context, name string, ignoreCase bool) (*models.Environment, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return findByName(m.Environments, name, ignoreCase, func(item models.Environment) string { return item.Name }), nil
}

func (m *MockOctopusClient) GetChannelByName(ctx context.Context, projectId string, name string, ignoreCase bool) (*models.Channel, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	channels := lo.Filter(m.Channels, func(item models.Channel, index int) bool { return item.ProjectID == projectId })

	return findByName(channels, name, ignoreCase, func(item models.Channel) string { return item.Name }), nil
}

func (m *MockOctopusClient) GetDefaultChannel(ctx context.Context, projectId string) (*models.Channel, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	if channel, found := lo.Find(m.Channels, func(item models.Channel) bool {
		return item.ProjectID == projectId && item.IsDefault
	}); found {
		return &channel, nil
	}

	return nil, nil
}

func (m *MockOctopusClient) GetTenantByName(ctx context.Context, name string, ignoreCase bool) (*models.Tenant, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return findByName(m.Tenants, name, ignoreCase, func(item models.Tenant) string { return item.Name }), nil
}

func (m *MockOctopusClient) GetTagByCanonicalName(ctx context.Context, canonicalName string, ignoreCase bool) (*models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return findByName(m.Tags, canonicalName, ignoreCase, func(item models.Tag) string { return item.CanonicalTagName }), nil
}

func (m *MockOctopusClient) GetSpaceById(ctx context.Context, spaceId string) (*models.Space, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	if space, found := lo.Find(m.Spaces, func(item models.Space) bool { return item.ID == spaceId }); found {
		return &space, nil
	}

	return nil, nil
}

func (m *MockOctopusClient) GetReleaseByVersion(ctx context.Context, projectId string, version string) (*models.Release, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	if release, found := lo.Find(m.Releases, func(item models.Release) bool {
		return item.ProjectID == projectId && strings.EqualFold(item.Version, version)
	}); found {
		return &release, nil
	}

	return nil, nil
}

// GetLatestRelease returns the last of the project's releases in the Releases slice
func (m *MockOctopusClient) GetLatestRelease(ctx context.Context, projectId string) (*models.Release, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	for index := len(m.Releases) - 1; index >= 0; index-- {
		if m.Releases[index].ProjectID == projectId {
			release := m.Releases[index]
			return &release, nil
		}
	}

	return nil, nil
}

func (m *MockOctopusClient) CreateRelease(ctx context.Context, release models.Release) (*models.Release, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CreatedReleases = append(m.CreatedReleases, release)
	release.ID = "Releases-100"

	return &release, nil
}

func (m *MockOctopusClient) GetPromptedVariables(ctx context.Context, releaseId string, environmentId string) ([]models.PromptedVariable, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Prompted, nil
}

func (m *MockOctopusClient) ExecuteDeployment(ctx context.Context, deployment models.Deployment) (*models.Deployment, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CreatedDeployments = append(m.CreatedDeployments, deployment)
	deployment.ID = "Deployments-100"
	deployment.TaskID = "ServerTasks-1"

	return &deployment, nil
}

func (m *MockOctopusClient) WaitForTask(ctx context.Context, taskId string, pollInterval time.Duration) (*models.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	if m.Task == nil {
		<-ctx.Done()
		return &models.Task{ID: taskId, State: models.TaskStateExecuting}, ctx.Err()
	}

	return m.Task, nil
}

// MockClientFactory returns the same client for every selection, or Err if it is set
type MockClientFactory struct {
	Client octopus_apis.OctopusClient
	Err    error
}

func (f *MockClientFactory) GetClient(selection models.ServerSelection) (octopus_apis.OctopusClient, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	return f.Client, nil
}
