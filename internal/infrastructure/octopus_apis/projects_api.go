package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

type ProjectsApi struct {
	lookups *sdkLookups
}

func NewProjectsApi(lookups *sdkLookups) *ProjectsApi {
	return &ProjectsApi{lookups: lookups}
}

func (p *ProjectsApi) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return listResources[models.Project](ctx, p.lookups, "projects", p.lookups.resources.GetAllProjects)
}

// GetProjectByName returns nil if no project matches
func (p *ProjectsApi) GetProjectByName(ctx context.Context, name string, ignoreCase bool) (*models.Project, error) {
	projects, err := p.GetAllProjects(ctx)

	if err != nil {
		return nil, err
	}

	return findByName(projects, name, ignoreCase, func(item models.Project) string {
		return item.Name
	}), nil
}
