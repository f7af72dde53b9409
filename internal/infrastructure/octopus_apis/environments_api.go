package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

type EnvironmentsApi struct {
	lookups *sdkLookups
}

func NewEnvironmentsApi(lookups *sdkLookups) *EnvironmentsApi {
	return &EnvironmentsApi{lookups: lookups}
}

func (e *EnvironmentsApi) GetAllEnvironments(ctx context.Context) ([]models.Environment, error) {
	return listResources[models.Environment](ctx, e.lookups, "environments", e.lookups.resources.GetAllEnvironments)
}

func (e *EnvironmentsApi) GetEnvironmentByName(ctx context.Context, name string, ignoreCase bool) (*models.Environment, error) {
	environments, err := e.GetAllEnvironments(ctx)

	if err != nil {
		return nil, err
	}

	return findByName(environments, name, ignoreCase, func(item models.Environment) string {
		return item.Name
	}), nil
}
