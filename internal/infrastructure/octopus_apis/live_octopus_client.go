package octopus_apis

import (
	"context"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

// LiveOctopusClient interacts with a live Octopus API endpoint through the resource APIs. Name lookups
// go through the go-octopusdeploy client, and everything else through the authenticated web client.
type LiveOctopusClient struct {
	webClient    *AuthenticatedWebClient
	Projects     *ProjectsApi
	Environments *EnvironmentsApi
	Channels     *ChannelsApi
	Releases     *ReleasesApi
	Tenants      *TenantsApi
	Deployments  *DeploymentsApi
	Tasks        *TasksApi
	Variables    *VariablesApi
	Spaces       *SpacesApi
	TagSets      *TagSetsApi
}

func NewLiveOctopusClient(serverUrl string, apiKey string, spaceId string, options WebClientOptions) (*LiveOctopusClient, error) {
	webClient, err := NewAuthenticatedWebClient(serverUrl, apiKey, spaceId, options)

	if err != nil {
		return nil, err
	}

	sdk, err := newSdkClient(webClient)

	if err != nil {
		return nil, err
	}

	return newLiveOctopusClient(webClient, sdk, options.CacheDuration)
}

func newLiveOctopusClient(webClient *AuthenticatedWebClient, resources sdkResources, cacheDuration time.Duration) (*LiveOctopusClient, error) {
	lookups, err := newSdkLookups(resources, cacheDuration, webClient.logger)

	if err != nil {
		return nil, err
	}

	return &LiveOctopusClient{
		webClient:    webClient,
		Projects:     NewProjectsApi(lookups),
		Environments: NewEnvironmentsApi(lookups),
		Channels:     NewChannelsApi(webClient),
		Releases:     NewReleasesApi(webClient),
		Tenants:      NewTenantsApi(lookups),
		Deployments:  NewDeploymentsApi(webClient),
		Tasks:        NewTasksApi(webClient),
		Variables:    NewVariablesApi(webClient),
		Spaces:       NewSpacesApi(lookups),
		TagSets:      NewTagSetsApi(lookups),
	}, nil
}

func (o *LiveOctopusClient) GetProjectByName(ctx context.Context, name string, ignoreCase bool) (*models.Project, error) {
	return o.Projects.GetProjectByName(ctx, name, ignoreCase)
}

func (o *LiveOctopusClient) GetEnvironmentByName(ctx context.Context, name string, ignoreCase bool) (*models.Environment, error) {
	return o.Environments.GetEnvironmentByName(ctx, name, ignoreCase)
}

func (o *LiveOctopusClient) GetChannelByName(ctx context.Context, projectId string, name string, ignoreCase bool) (*models.Channel, error) {
	return o.Channels.GetChannelByName(ctx, projectId, name, ignoreCase)
}

func (o *LiveOctopusClient) GetDefaultChannel(ctx context.Context, projectId string) (*models.Channel, error) {
	return o.Channels.GetDefaultChannel(ctx, projectId)
}

func (o *LiveOctopusClient) GetTenantByName(ctx context.Context, name string, ignoreCase bool) (*models.Tenant, error) {
	return o.Tenants.GetTenantByName(ctx, name, ignoreCase)
}

func (o *LiveOctopusClient) GetTagByCanonicalName(ctx context.Context, canonicalName string, ignoreCase bool) (*models.Tag, error) {
	return o.TagSets.GetTagByCanonicalName(ctx, canonicalName, ignoreCase)
}

func (o *LiveOctopusClient) GetSpaceById(ctx context.Context, spaceId string) (*models.Space, error) {
	return o.Spaces.GetSpaceById(ctx, spaceId)
}

func (o *LiveOctopusClient) GetReleaseByVersion(ctx context.Context, projectId string, version string) (*models.Release, error) {
	return o.Releases.GetReleaseByVersion(ctx, projectId, version)
}

func (o *LiveOctopusClient) GetLatestRelease(ctx context.Context, projectId string) (*models.Release, error) {
	return o.Releases.GetLatestRelease(ctx, projectId)
}

func (o *LiveOctopusClient) CreateRelease(ctx context.Context, release models.Release) (*models.Release, error) {
	return o.Releases.CreateRelease(ctx, release)
}

func (o *LiveOctopusClient) GetPromptedVariables(ctx context.Context, releaseId string, environmentId string) ([]models.PromptedVariable, error) {
	return o.Variables.GetPromptedVariables(ctx, releaseId, environmentId)
}

func (o *LiveOctopusClient) ExecuteDeployment(ctx context.Context, deployment models.Deployment) (*models.Deployment, error) {
	return o.Deployments.ExecuteDeployment(ctx, deployment)
}

func (o *LiveOctopusClient) WaitForTask(ctx context.Context, taskId string, pollInterval time.Duration) (*models.Task, error) {
	return o.Tasks.WaitForTask(ctx, taskId, pollInterval)
}
