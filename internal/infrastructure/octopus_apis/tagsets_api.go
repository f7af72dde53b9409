package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

type TagSetsApi struct {
	lookups *sdkLookups
}

func NewTagSetsApi(lookups *sdkLookups) *TagSetsApi {
	return &TagSetsApi{lookups: lookups}
}

func (t *TagSetsApi) GetAllTagSets(ctx context.Context) ([]models.TagSet, error) {
	return listResources[models.TagSet](ctx, t.lookups, "tagsets", t.lookups.resources.GetAllTagSets)
}

func (t *TagSetsApi) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	tagSets, err := t.GetAllTagSets(ctx)

	if err != nil {
		return nil, err
	}

	return lo.FlatMap(tagSets, func(item models.TagSet, index int) []models.Tag {
		return item.Tags
	}), nil
}

// GetTagByCanonicalName finds a tag by its "Tag Set/Tag" name
func (t *TagSetsApi) GetTagByCanonicalName(ctx context.Context, canonicalName string, ignoreCase bool) (*models.Tag, error) {
	tags, err := t.GetAllTags(ctx)

	if err != nil {
		return nil, err
	}

	return findByName(tags, canonicalName, ignoreCase, func(item models.Tag) string {
		return item.CanonicalTagName
	}), nil
}
