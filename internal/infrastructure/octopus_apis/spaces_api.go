package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

type SpacesApi struct {
	lookups *sdkLookups
}

func NewSpacesApi(lookups *sdkLookups) *SpacesApi {
	return &SpacesApi{lookups: lookups}
}

// GetAllSpaces lists every space. Spaces are not themselves space scoped.
func (s *SpacesApi) GetAllSpaces(ctx context.Context) ([]models.Space, error) {
	return listResources[models.Space](ctx, s.lookups, "spaces", s.lookups.resources.GetAllSpaces)
}

func (s *SpacesApi) GetSpaceById(ctx context.Context, spaceId string) (*models.Space, error) {
	spaces, err := s.GetAllSpaces(ctx)

	if err != nil {
		return nil, err
	}

	space, found := lo.Find(spaces, func(item models.Space) bool {
		return item.ID == spaceId
	})

	if !found {
		return nil, nil
	}

	return &space, nil
}

func (s *SpacesApi) GetSpaceByName(ctx context.Context, name string, ignoreCase bool) (*models.Space, error) {
	spaces, err := s.GetAllSpaces(ctx)

	if err != nil {
		return nil, err
	}

	return findByName(spaces, name, ignoreCase, func(item models.Space) string {
		return item.Name
	}), nil
}
