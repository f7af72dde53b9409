package octopus_apis

import (
	"context"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

const nextPageLink = "Page.Next"

// getAllPages follows the Page.Next links of a paged collection, returning the items of every page
func getAllPages[T any](ctx context.Context, webClient *AuthenticatedWebClient, path string) ([]T, error) {
	items := []T{}
	visited := map[string]bool{}

	for next := path; next != "" && !visited[next]; {
		visited[next] = true

		page := models.PagedCollection[T]{}
		err := webClient.GetJson(ctx, next, nil, &page)

		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
		next = page.Links[nextPageLink]
	}

	return items, nil
}
