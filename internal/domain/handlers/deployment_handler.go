package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/inputs"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/validators"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/versioners"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DeploymentHandler creates and deploys releases through the Octopus API rather than the Octo CLI
type DeploymentHandler struct {
	logger       apploggers.AppLogger
	clients      octopus_apis.ClientFactory
	versioner    versioners.ReleaseVersioner
	pollInterval time.Duration
}

func NewDeploymentHandler(logger apploggers.AppLogger, clients octopus_apis.ClientFactory, versioner versioners.ReleaseVersioner, pollInterval time.Duration) *DeploymentHandler {
	return &DeploymentHandler{
		logger:       logger,
		clients:      clients,
		versioner:    versioner,
		pollInterval: pollInterval,
	}
}

// CreateRelease creates the release in the named channel, or the project's default channel. Without a
// release version, the next version after the project's latest release is used.
func (h *DeploymentHandler) CreateRelease(ctx context.Context, request models.CreateReleaseRequest) (*models.Release, error) {
	client, err := h.clients.GetClient(request.ServerSelection)

	if err != nil {
		return nil, serverError(err)
	}

	octopus := validators.NewOctopusValidator(client)
	validation := &validators.StepValidation{Fields: []models.FieldValidation{
		{Field: "project", ValidationResult: octopus.ValidateProject(ctx, request.Project)},
		{Field: "channel", ValidationResult: octopus.ValidateChannel(ctx, request.Channel, request.Project)},
	}}

	if request.ReleaseVersion != "" {
		validation.Fields = append(validation.Fields, models.FieldValidation{
			Field:            "releaseVersion",
			ValidationResult: octopus.ValidateRelease(ctx, request.ReleaseVersion, request.Project, models.ReleaseMustNotExist),
		})
	}

	if err := checkValidation(octopus, validation); err != nil {
		return nil, err
	}

	project, err := client.GetProjectByName(ctx, request.Project, true)

	if err != nil {
		return nil, err
	}

	channel, err := h.channel(ctx, client, project, request.Channel)

	if err != nil {
		return nil, err
	}

	version := request.ReleaseVersion
	if version == "" {
		version, err = h.versioner.GenerateReleaseVersion(ctx, client, project)

		if err != nil {
			return nil, err
		}
	}

	release := models.Release{
		Version:      version,
		ProjectID:    project.ID,
		ReleaseNotes: request.ReleaseNotes,
		SelectedPackages: lo.Map(request.Packages, func(item models.PackageConfiguration, index int) models.SelectedPackage {
			return models.SelectedPackage{
				ActionName:           item.PackageName,
				PackageReferenceName: item.PackageReferenceName,
				Version:              item.PackageVersion,
			}
		}),
	}

	if channel != nil {
		release.ChannelID = channel.ID
	}

	created, err := client.CreateRelease(ctx, release)

	if err != nil {
		return nil, err
	}

	h.logger.GetLogger().Info("Created release " + created.Version + " for project " + project.Name)

	return created, nil
}

// DeployRelease deploys the release to the environment, supplying any prompted variables. When asked
// to wait, it blocks until the deployment task completes or the deployment timeout passes. A task that
// times out is left running on the server.
func (h *DeploymentHandler) DeployRelease(ctx context.Context, request models.DeployReleaseRequest) (*models.DeploymentResult, error) {
	client, err := h.clients.GetClient(request.ServerSelection)

	if err != nil {
		return nil, serverError(err)
	}

	octopus := validators.NewOctopusValidator(client)
	validation := &validators.StepValidation{Fields: []models.FieldValidation{
		{Field: "project", ValidationResult: octopus.ValidateProject(ctx, request.Project)},
		{Field: "releaseVersion", ValidationResult: octopus.ValidateRelease(ctx, request.ReleaseVersion, request.Project, models.ReleaseMustExist)},
		{Field: "environment", ValidationResult: octopus.ValidateEnvironment(ctx, request.Environment)},
		{Field: "tenant", ValidationResult: octopus.ValidateTenant(ctx, request.Tenant)},
		{Field: "deploymentTimeout", ValidationResult: validators.ValidateTimeSpan(request.DeploymentTimeout)},
	}}

	if err := checkValidation(octopus, validation); err != nil {
		return nil, err
	}

	variables, err := inputs.VariableMap(request.Variables)

	if err != nil {
		return nil, invalidField("variables", err)
	}

	project, err := client.GetProjectByName(ctx, request.Project, true)

	if err != nil {
		return nil, err
	}

	release, err := client.GetReleaseByVersion(ctx, project.ID, request.ReleaseVersion)

	if err != nil {
		return nil, err
	}

	environment, err := client.GetEnvironmentByName(ctx, request.Environment, true)

	if err != nil {
		return nil, err
	}

	deployment := models.Deployment{
		ReleaseID:     release.ID,
		EnvironmentID: environment.ID,
		Comments:      request.Comments,
	}

	if request.Tenant != "" {
		tenant, err := client.GetTenantByName(ctx, request.Tenant, true)

		if err != nil {
			return nil, err
		}

		deployment.TenantID = tenant.ID
	}

	prompted, err := client.GetPromptedVariables(ctx, release.ID, environment.ID)

	if err != nil {
		return nil, err
	}

	deployment.FormValues, err = octopus_apis.BuildFormValues(prompted, variables)

	if err != nil {
		return nil, invalidField("variables", err)
	}

	created, err := client.ExecuteDeployment(ctx, deployment)

	if err != nil {
		return nil, err
	}

	h.logger.GetLogger().Info("Deploying release "+release.Version+" of "+project.Name+" to "+environment.Name,
		zap.String("deploymentId", created.ID), zap.String("taskId", created.TaskID))

	result := &models.DeploymentResult{
		DeploymentId: created.ID,
		TaskId:       created.TaskID,
	}

	if !request.WaitForDeployment {
		return result, nil
	}

	return h.wait(ctx, client, result, request.DeploymentTimeout)
}

func (h *DeploymentHandler) wait(ctx context.Context, client octopus_apis.OctopusClient, result *models.DeploymentResult, deploymentTimeout string) (*models.DeploymentResult, error) {
	if deploymentTimeout != "" {
		// Already validated
		timeout, _ := validators.ParseTimeSpan(deploymentTimeout)

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	task, err := client.WaitForTask(ctx, result.TaskId, h.pollInterval)

	if task != nil {
		result.TaskState = task.State
		result.Completed = task.IsCompleted
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, fmt.Errorf("octobuildstep-deploy-timeout - deployment task %s did not complete within %s: %w", result.TaskId, deploymentTimeout, err)
		}

		return result, err
	}

	if !task.FinishedSuccessfully {
		return result, &TaskFailedError{
			TaskId:       task.ID,
			State:        task.State,
			ErrorMessage: task.ErrorMessage,
		}
	}

	return result, nil
}

func (h *DeploymentHandler) channel(ctx context.Context, client octopus_apis.OctopusClient, project *models.Project, channelName string) (*models.Channel, error) {
	if channelName == "" {
		return client.GetDefaultChannel(ctx, project.ID)
	}

	return client.GetChannelByName(ctx, project.ID, channelName, true)
}
