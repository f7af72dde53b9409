package versioners

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

// LatestReleaseLookup returns the release of a project with the highest version, or nil
type LatestReleaseLookup interface {
	GetLatestRelease(ctx context.Context, projectId string) (*models.Release, error)
}

// ReleaseVersioner defines the functions required to create an Octopus release version
type ReleaseVersioner interface {
	GenerateReleaseVersion(ctx context.Context, octo LatestReleaseLookup, project *models.Project) (string, error)
}
