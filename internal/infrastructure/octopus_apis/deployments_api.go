package octopus_apis

import (
	"context"
	"net/url"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

type DeploymentsApi struct {
	webClient *AuthenticatedWebClient
}

func NewDeploymentsApi(webClient *AuthenticatedWebClient) *DeploymentsApi {
	return &DeploymentsApi{webClient: webClient}
}

func (d *DeploymentsApi) GetDeploymentsForRelease(ctx context.Context, releaseId string) ([]models.Deployment, error) {
	return getAllPages[models.Deployment](ctx, d.webClient, d.webClient.SpacePath("releases/"+url.PathEscape(releaseId)+"/deployments"))
}

// ExecuteDeployment queues a deployment. The returned deployment holds the ID of the task that runs it.
func (d *DeploymentsApi) ExecuteDeployment(ctx context.Context, deployment models.Deployment) (*models.Deployment, error) {
	created := models.Deployment{}
	err := d.webClient.PostJson(ctx, d.webClient.SpacePath("deployments"), deployment, &created)

	if err != nil {
		return nil, err
	}

	return &created, nil
}
