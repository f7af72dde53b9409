package versioners

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

const InitialReleaseVersion = "0.0.1"

type LatestReleaseVersioner struct {
	now func() time.Time
}

func NewLatestReleaseVersioner() *LatestReleaseVersioner {
	return &LatestReleaseVersioner{
		now: time.Now,
	}
}

// GenerateReleaseVersion increments the patch number of the project's latest release. A project with no
// releases starts at 0.0.1. If the latest release is not a semantic version, a date version is used.
func (o *LatestReleaseVersioner) GenerateReleaseVersion(ctx context.Context, octo LatestReleaseLookup, project *models.Project) (string, error) {
	latest, err := octo.GetLatestRelease(ctx, project.ID)

	if err != nil {
		return "", err
	}

	if latest == nil {
		return InitialReleaseVersion, nil
	}

	version, err := semver.NewVersion(latest.Version)

	if err != nil {
		// if all else fails, use a date ver
		return o.now().Format("2006.01.02.150405"), nil
	}

	// A prerelease is followed by its release, so 1.0.0-beta becomes 1.0.0
	return version.IncPatch().String(), nil
}
