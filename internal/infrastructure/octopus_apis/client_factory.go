package octopus_apis

import (
	"strings"
	"sync"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/config"
)

// LiveClientFactory creates one client per server and space, and reuses it so the name lookup cache is shared
type LiveClientFactory struct {
	servers *config.ServerRegistry
	options WebClientOptions
	clients sync.Map
}

func NewLiveClientFactory(servers *config.ServerRegistry, options WebClientOptions) *LiveClientFactory {
	return &LiveClientFactory{
		servers: servers,
		options: options,
		clients: sync.Map{},
	}
}

func (f *LiveClientFactory) GetClient(selection models.ServerSelection) (OctopusClient, error) {
	server, err := f.servers.GetServer(selection.ServerId)

	if err != nil {
		return nil, err
	}

	spaceId := strings.TrimSpace(selection.SpaceId)
	if spaceId == "" {
		spaceId = server.SpaceId
	}

	key := server.Id + "/" + spaceId

	if client, exists := f.clients.Load(key); exists {
		return client.(*LiveOctopusClient), nil
	}

	options := f.options
	if options.Logger == nil {
		options.Logger = apploggers.NewNopLogger()
	}

	client, err := NewLiveOctopusClient(server.Url, server.ApiKey, spaceId, options)

	if err != nil {
		return nil, err
	}

	actual, _ := f.clients.LoadOrStore(key, client)

	return actual.(*LiveOctopusClient), nil
}
