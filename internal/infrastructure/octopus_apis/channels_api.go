package octopus_apis

import (
	"context"
	"net/url"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

type ChannelsApi struct {
	webClient *AuthenticatedWebClient
}

func NewChannelsApi(webClient *AuthenticatedWebClient) *ChannelsApi {
	return &ChannelsApi{webClient: webClient}
}

func (c *ChannelsApi) GetChannelsByProjectId(ctx context.Context, projectId string) ([]models.Channel, error) {
	return getAllPages[models.Channel](ctx, c.webClient, c.webClient.SpacePath("projects/"+url.PathEscape(projectId)+"/channels"))
}

func (c *ChannelsApi) GetChannelByName(ctx context.Context, projectId string, name string, ignoreCase bool) (*models.Channel, error) {
	channels, err := c.GetChannelsByProjectId(ctx, projectId)

	if err != nil {
		return nil, err
	}

	return findByName(channels, name, ignoreCase, func(item models.Channel) string {
		return item.Name
	}), nil
}

// GetDefaultChannel returns the channel releases are created in when no channel is specified
func (c *ChannelsApi) GetDefaultChannel(ctx context.Context, projectId string) (*models.Channel, error) {
	channels, err := c.GetChannelsByProjectId(ctx, projectId)

	if err != nil {
		return nil, err
	}

	defaultChannel, found := lo.Find(channels, func(item models.Channel) bool {
		return item.IsDefault
	})

	if !found {
		return nil, nil
	}

	return &defaultChannel, nil
}
