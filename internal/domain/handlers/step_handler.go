package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/buildinfo"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/commands"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/validators"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/config"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"go.uber.org/zap"
)

// ServerResolver looks up the configured Octopus servers
type ServerResolver interface {
	GetServer(serverId string) (*config.OctopusServer, error)
	HasServer(serverId string) bool
}

// StepHandler validates build steps and plans the Octo CLI command that runs them
type StepHandler struct {
	logger  apploggers.AppLogger
	clients octopus_apis.ClientFactory
	servers ServerResolver
	builder *commands.Builder
}

func NewStepHandler(logger apploggers.AppLogger, clients octopus_apis.ClientFactory, servers ServerResolver, builder *commands.Builder) *StepHandler {
	return &StepHandler{
		logger:  logger,
		clients: clients,
		servers: servers,
		builder: builder,
	}
}

// ValidateField validates a single step field as it is entered
func (h *StepHandler) ValidateField(ctx context.Context, field string, request models.FieldValidationRequest) (models.ValidationResult, error) {
	switch field {
	case "serverId":
		return validators.ValidateServerId(h.servers, request.Value), nil
	case "deploymentTimeout":
		return validators.ValidateTimeSpan(request.Value), nil
	}

	validate, err := h.fieldValidator(ctx, field, request)

	if err != nil {
		return models.ValidationResult{}, err
	}

	client, err := h.clients.GetClient(request.ServerSelection)

	if err != nil {
		return validators.ErrorResult(err), nil
	}

	return validate(validators.NewOctopusValidator(client)), nil
}

func (h *StepHandler) fieldValidator(ctx context.Context, field string, request models.FieldValidationRequest) (func(octopus *validators.OctopusValidator) models.ValidationResult, error) {
	switch field {
	case "spaceId":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateSpace(ctx, request.Value)
		}, nil
	case "project":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateProject(ctx, request.Value)
		}, nil
	case "environment":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateEnvironments(ctx, request.Value)
		}, nil
	case "channel":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateChannel(ctx, request.Value, request.Project)
		}, nil
	case "tenant":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateTenants(ctx, request.Value)
		}, nil
	case "tenantTag":
		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateTenantTags(ctx, request.Value)
		}, nil
	case "releaseVersion":
		requirement := request.ReleaseExistence
		if requirement == "" {
			requirement = models.ReleaseMustExist
		}

		return func(octopus *validators.OctopusValidator) models.ValidationResult {
			return octopus.ValidateRelease(ctx, request.Value, request.Project, requirement)
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func (h *StepHandler) PlanCreateRelease(ctx context.Context, step models.CreateReleaseStep) (*models.CommandPlan, error) {
	client, connection, err := h.connect(step.ServerSelection)

	if err != nil {
		return nil, err
	}

	octopus := validators.NewOctopusValidator(client)
	validation := validators.NewStepValidator(octopus).ValidateCreateRelease(ctx, step)

	if err := checkValidation(octopus, validation); err != nil {
		return nil, err
	}

	command, err := h.builder.CreateRelease(step, *connection)

	if err != nil {
		return nil, invalidField("step", err)
	}

	return h.plan(command, validation.Warnings(), nil), nil
}

func (h *StepHandler) PlanDeployRelease(ctx context.Context, step models.DeployReleaseStep) (*models.CommandPlan, error) {
	client, connection, err := h.connect(step.ServerSelection)

	if err != nil {
		return nil, err
	}

	octopus := validators.NewOctopusValidator(client)
	validation := validators.NewStepValidator(octopus).ValidateDeployRelease(ctx, step)

	if err := checkValidation(octopus, validation); err != nil {
		return nil, err
	}

	command, err := h.builder.DeployRelease(step, *connection)

	if err != nil {
		return nil, invalidField("step", err)
	}

	return h.plan(command, validation.Warnings(), nil), nil
}

func (h *StepHandler) PlanPush(ctx context.Context, step models.PushPackageStep) (*models.CommandPlan, error) {
	connection, err := h.connection(step.ServerSelection)

	if err != nil {
		return nil, err
	}

	validation := validators.ValidatePush(step)

	if err := validation.Err(); err != nil {
		return nil, &ValidationFailedError{Fields: validation.Fields, Err: err}
	}

	command, err := h.builder.Push(step, *connection)

	if err != nil {
		if errors.Is(err, commands.ErrNoPackagesMatched) {
			return nil, invalidField("packagePaths", err)
		}

		return nil, invalidField("step", err)
	}

	return h.plan(command, validation.Warnings(), nil), nil
}

// PlanBuildInformation assembles the build information document, filling the VCS details from the
// workspace's git repository when one is available, and saves it in the workspace for the command.
func (h *StepHandler) PlanBuildInformation(ctx context.Context, step models.PushBuildInformationStep) (*models.CommandPlan, error) {
	connection, err := h.connection(step.ServerSelection)

	if err != nil {
		return nil, err
	}

	validation := validators.ValidateBuildInformation(step)

	if err := validation.Err(); err != nil {
		return nil, &ValidationFailedError{Fields: validation.Fields, Err: err}
	}

	warnings := validation.Warnings()

	var collected *models.BuildInformation
	if step.Workspace != "" {
		collected, err = buildinfo.CollectFromGit(step.Workspace, step.SinceCommit, step.MaxCommits)

		if err != nil {
			h.logger.GetLogger().Warn("Failed to read the git history", zap.String("workspace", step.Workspace), zap.Error(err))
			warnings = append(warnings, "Unable to read the git history of the workspace: "+err.Error())
		}
	}

	content, err := buildinfo.ToJson(buildinfo.Merge(step.BuildInformation, collected))

	if err != nil {
		return nil, err
	}

	file, err := buildInformationFile(step.Workspace, step.OutputFile)

	if err != nil {
		return nil, invalidField("outputFile", err)
	}

	if step.Workspace != "" {
		if err := buildinfo.WriteFile(file, content); err != nil {
			return nil, err
		}
	}

	command, err := h.builder.BuildInformation(step, file, *connection)

	if err != nil {
		return nil, invalidField("step", err)
	}

	return h.plan(command, warnings, map[string]string{file: content}), nil
}

// checkValidation returns any failure to reach the server, otherwise the field errors
func checkValidation(octopus *validators.OctopusValidator, validation *validators.StepValidation) error {
	if err := octopus.Failures(); err != nil {
		return err
	}

	if err := validation.Err(); err != nil {
		return &ValidationFailedError{Fields: validation.Fields, Err: err}
	}

	return nil
}

func (h *StepHandler) plan(command *commands.OctoCommand, warnings []string, files map[string]string) *models.CommandPlan {
	plan := command.Plan(warnings, files)
	h.logger.GetLogger().Info("Planned Octo command", zap.String("commandLine", plan.CommandLine))
	return &plan
}

// connect returns the client and connection details of the selected server
func (h *StepHandler) connect(selection models.ServerSelection) (octopus_apis.OctopusClient, *commands.Connection, error) {
	connection, err := h.connection(selection)

	if err != nil {
		return nil, nil, err
	}

	client, err := h.clients.GetClient(selection)

	if err != nil {
		return nil, nil, serverError(err)
	}

	return client, connection, nil
}

func (h *StepHandler) connection(selection models.ServerSelection) (*commands.Connection, error) {
	server, err := h.servers.GetServer(selection.ServerId)

	if err != nil {
		return nil, serverError(err)
	}

	spaceId := strings.TrimSpace(selection.SpaceId)
	if spaceId == "" {
		spaceId = server.SpaceId
	}

	return &commands.Connection{
		ServerUrl: server.Url,
		ApiKey:    server.ApiKey,
		SpaceId:   spaceId,
	}, nil
}

// serverError reports a server that is not configured, or configured badly, against the serverId field
func serverError(err error) error {
	if errors.Is(err, config.ErrUnknownServer) || errors.Is(err, octopus_apis.ErrInvalidServerUrl) || errors.Is(err, octopus_apis.ErrMissingApiKey) {
		result := validators.ErrorResult(err)
		if errors.Is(err, config.ErrUnknownServer) {
			result = models.Error("There are no Octopus Deploy servers configured with this Server Id.")
		}

		return &ValidationFailedError{
			Fields: []models.FieldValidation{{Field: "serverId", ValidationResult: result}},
			Err:    err,
		}
	}

	return err
}

// buildInformationFile resolves the output file against the workspace. The file must stay inside the
// workspace.
func buildInformationFile(workspace string, outputFile string) (string, error) {
	if strings.TrimSpace(outputFile) == "" {
		outputFile = commands.DefaultBuildInformationFile
	}

	if workspace == "" {
		return outputFile, nil
	}

	file := outputFile
	if !filepath.IsAbs(file) {
		file = filepath.Join(workspace, file)
	}

	relative, err := filepath.Rel(workspace, file)

	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("the output file %q must be inside the workspace", outputFile)
	}

	return file, nil
}
