package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

type TenantsApi struct {
	lookups *sdkLookups
}

func NewTenantsApi(lookups *sdkLookups) *TenantsApi {
	return &TenantsApi{lookups: lookups}
}

func (t *TenantsApi) GetAllTenants(ctx context.Context) ([]models.Tenant, error) {
	return listResources[models.Tenant](ctx, t.lookups, "tenants", t.lookups.resources.GetAllTenants)
}

func (t *TenantsApi) GetTenantByName(ctx context.Context, name string, ignoreCase bool) (*models.Tenant, error) {
	tenants, err := t.GetAllTenants(ctx)

	if err != nil {
		return nil, err
	}

	return findByName(tenants, name, ignoreCase, func(item models.Tenant) string {
		return item.Name
	}), nil
}
