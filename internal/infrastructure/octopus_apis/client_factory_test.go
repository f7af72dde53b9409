package octopus_apis

import (
	"testing"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRegistry(t *testing.T) *config.ServerRegistry {
	registry, err := config.NewServerRegistry([]config.OctopusServer{
		{Id: "main", Url: "https://main.example.com", ApiKey: "API-MAIN", SpaceId: "Spaces-1"},
		{Id: "broken", Url: "not a url", ApiKey: "API-BROKEN"},
	})

	if err != nil {
		t.Fatal(err)
	}

	return registry
}

func TestClientFactoryReusesClients(t *testing.T) {
	factory := NewLiveClientFactory(createTestRegistry(t), WebClientOptions{})

	first, err := factory.GetClient(models.ServerSelection{})
	require.NoError(t, err)

	second, err := factory.GetClient(models.ServerSelection{ServerId: "main", SpaceId: "Spaces-1"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "Spaces-1", first.(*LiveOctopusClient).webClient.SpaceId())

	other, err := factory.GetClient(models.ServerSelection{ServerId: "main", SpaceId: "Spaces-2"})
	require.NoError(t, err)

	assert.NotSame(t, first, other)
}

func TestClientFactoryErrors(t *testing.T) {
	factory := NewLiveClientFactory(createTestRegistry(t), WebClientOptions{})

	_, err := factory.GetClient(models.ServerSelection{ServerId: "missing"})
	assert.ErrorIs(t, err, config.ErrUnknownServer)

	_, err = factory.GetClient(models.ServerSelection{ServerId: "broken"})
	assert.ErrorIs(t, err, ErrInvalidServerUrl)
}
