package octopus_apis

import (
	"context"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

// OctopusClient is everything the build steps need from an Octopus server. Lookups that find nothing
// return a nil resource and a nil error.
type OctopusClient interface {
	// GetProjectByName returns the project with the name, optionally matching the name ignoring case
	GetProjectByName(ctx context.Context, name string, ignoreCase bool) (*models.Project, error)
	GetEnvironmentByName(ctx context.Context, name string, ignoreCase bool) (*models.Environment, error)
	GetChannelByName(ctx context.Context, projectId string, name string, ignoreCase bool) (*models.Channel, error)
	// GetDefaultChannel returns the channel releases are created in when no channel is specified
	GetDefaultChannel(ctx context.Context, projectId string) (*models.Channel, error)
	GetTenantByName(ctx context.Context, name string, ignoreCase bool) (*models.Tenant, error)
	// GetTagByCanonicalName finds a tenant tag by its "Tag Set/Tag" name
	GetTagByCanonicalName(ctx context.Context, canonicalName string, ignoreCase bool) (*models.Tag, error)
	GetSpaceById(ctx context.Context, spaceId string) (*models.Space, error)
	GetReleaseByVersion(ctx context.Context, projectId string, version string) (*models.Release, error)
	// GetLatestRelease returns the project's release with the highest version, or nil if it has none
	GetLatestRelease(ctx context.Context, projectId string) (*models.Release, error)
	CreateRelease(ctx context.Context, release models.Release) (*models.Release, error)
	// GetPromptedVariables returns the variables a deployment of the release to the environment must supply
	GetPromptedVariables(ctx context.Context, releaseId string, environmentId string) ([]models.PromptedVariable, error)
	ExecuteDeployment(ctx context.Context, deployment models.Deployment) (*models.Deployment, error)
	// WaitForTask blocks until the task completes or the context is done
	WaitForTask(ctx context.Context, taskId string, pollInterval time.Duration) (*models.Task, error)
}

// ClientFactory returns a client for the server and space selected by a request
type ClientFactory interface {
	GetClient(selection models.ServerSelection) (OctopusClient, error)
}
