package versioners

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis/octopustest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var project = &models.Project{ID: "Projects-1", Name: "My Project"}

func versionAfter(t *testing.T, releases ...string) string {
	client := octopustest.NewMockOctopusClient()
	client.Releases = nil
	for _, release := range releases {
		client.Releases = append(client.Releases, models.Release{ProjectID: project.ID, Version: release})
	}

	versioner := NewLatestReleaseVersioner()
	versioner.now = func() time.Time {
		return time.Date(2023, 6, 1, 13, 14, 15, 0, time.UTC)
	}

	version, err := versioner.GenerateReleaseVersion(context.Background(), client, project)
	require.NoError(t, err)
	return version
}

func TestLatestReleaseVersionerIsAReleaseVersioner(t *testing.T) {
	var versioner ReleaseVersioner = NewLatestReleaseVersioner()
	assert.NotNil(t, versioner)
}

func TestFirstRelease(t *testing.T) {
	assert.Equal(t, InitialReleaseVersion, versionAfter(t))
}

func TestPatchIsIncremented(t *testing.T) {
	assert.Equal(t, "1.2.4", versionAfter(t, "1.2.2", "1.2.3"))
}

func TestPrereleaseIsReleased(t *testing.T) {
	assert.Equal(t, "2.0.0", versionAfter(t, "2.0.0-beta.1"))
}

func TestNonSemverFallsBackToDate(t *testing.T) {
	assert.Equal(t, "2023.06.01.131415", versionAfter(t, "build-abc"))
}

func TestLookupFailure(t *testing.T) {
	client := octopustest.NewMockOctopusClient()
	client.Err = errors.New("boom")

	_, err := NewLatestReleaseVersioner().GenerateReleaseVersion(context.Background(), client, project)
	assert.EqualError(t, err, "boom")
}
