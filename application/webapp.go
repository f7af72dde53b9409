package main

import (
	"fmt"
	"os"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/application"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/commands"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/handlers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/versioners"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/config"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"go.uber.org/zap"
)

func main() {
	err := start()

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func start() error {
	logger, err := apploggers.NewDevProdLogger()

	if err != nil {
		return err
	}

	defer logger.GetLogger().Sync()

	appConfig, err := config.LoadAppConfig()

	if err != nil {
		return err
	}

	servers, err := config.LoadServerRegistry()

	if err != nil {
		return err
	}

	logger.GetLogger().Info("Loaded Octopus servers", zap.Strings("serverIds", servers.ServerIds()))

	clients := octopus_apis.NewLiveClientFactory(servers, octopus_apis.WebClientOptions{
		CacheDuration: appConfig.CacheDuration,
		Logger:        logger,
	})

	stepHandler := handlers.NewStepHandler(logger, clients, servers, commands.NewBuilder(appConfig.OctoCliPath))
	deploymentHandler := handlers.NewDeploymentHandler(logger, clients, versioners.NewLatestReleaseVersioner(), appConfig.TaskPollInterval)

	return application.NewRouter(logger, stepHandler, deploymentHandler).Run()
}
