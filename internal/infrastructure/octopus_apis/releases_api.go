package octopus_apis

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

type ReleasesApi struct {
	webClient *AuthenticatedWebClient
}

func NewReleasesApi(webClient *AuthenticatedWebClient) *ReleasesApi {
	return &ReleasesApi{webClient: webClient}
}

func (r *ReleasesApi) GetReleasesForProject(ctx context.Context, projectId string) ([]models.Release, error) {
	return getAllPages[models.Release](ctx, r.webClient, r.webClient.SpacePath("projects/"+url.PathEscape(projectId)+"/releases"))
}

// GetReleaseByVersion returns nil if the project has no release with the version. Octopus treats
// versions as case-insensitive.
func (r *ReleasesApi) GetReleaseByVersion(ctx context.Context, projectId string, version string) (*models.Release, error) {
	releases, err := r.GetReleasesForProject(ctx, projectId)

	if err != nil {
		return nil, err
	}

	release, found := lo.Find(releases, func(item models.Release) bool {
		return strings.EqualFold(item.Version, version)
	})

	if !found {
		return nil, nil
	}

	return &release, nil
}

// GetLatestRelease returns the release with the highest semantic version. Releases whose versions
// are not semver sort after those that are, newest first.
func (r *ReleasesApi) GetLatestRelease(ctx context.Context, projectId string) (*models.Release, error) {
	releases, err := r.GetReleasesForProject(ctx, projectId)

	if err != nil {
		return nil, err
	}

	if len(releases) == 0 {
		return nil, nil
	}

	sortReleases(releases)

	return &releases[0], nil
}

func (r *ReleasesApi) CreateRelease(ctx context.Context, release models.Release) (*models.Release, error) {
	created := models.Release{}
	err := r.webClient.PostJson(ctx, r.webClient.SpacePath("releases"), release, &created)

	if err != nil {
		return nil, err
	}

	return &created, nil
}

func sortReleases(releases []models.Release) {
	sort.SliceStable(releases, func(a, b int) bool {
		v1, err1 := semver.NewVersion(releases[a].Version)
		v2, err2 := semver.NewVersion(releases[b].Version)

		if err1 == nil && err2 == nil {
			return v1.Compare(v2) > 0
		}

		if err1 == nil {
			return true
		}

		if err2 == nil {
			return false
		}

		return assembled(releases[a]).After(assembled(releases[b]))
	})
}

func assembled(release models.Release) time.Time {
	if release.Assembled == nil {
		return time.Time{}
	}

	return *release.Assembled
}
