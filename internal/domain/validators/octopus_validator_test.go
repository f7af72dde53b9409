package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis/octopustest"
	"github.com/stretchr/testify/assert"
)

func createValidator() *OctopusValidator {
	return NewOctopusValidator(octopustest.NewMockOctopusClient())
}

func TestValidateProject(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Error("Please provide a project name."), validator.ValidateProject(ctx, ""))
	assert.Equal(t, models.Error("Project not found."), validator.ValidateProject(ctx, "Missing"))
	assert.Equal(t, models.Warning("Project name case does not match. Did you mean 'My Project'?"), validator.ValidateProject(ctx, "my project"))
	assert.Equal(t, models.Ok(), validator.ValidateProject(ctx, "My Project"))
}

func TestValidateEnvironment(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Error("Please provide an environment name."), validator.ValidateEnvironment(ctx, ""))
	assert.Equal(t, models.Error("Environment not found."), validator.ValidateEnvironment(ctx, "Staging"))
	assert.Equal(t, models.Warning("Environment name case does not match. Did you mean 'Production'?"), validator.ValidateEnvironment(ctx, "PRODUCTION"))
	assert.Equal(t, models.Ok(), validator.ValidateEnvironment(ctx, "Development"))
}

func TestValidateEnvironmentsReportsErrorsBeforeWarnings(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Error("Environment not found."), validator.ValidateEnvironments(ctx, "development\nStaging"))
	assert.Equal(t, models.Warning("Environment name case does not match. Did you mean 'Development'?"), validator.ValidateEnvironments(ctx, "Production, development"))
	assert.Equal(t, models.Error("Please provide an environment name."), validator.ValidateEnvironments(ctx, " , "))
}

func TestValidateChannel(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Ok(), validator.ValidateChannel(ctx, "", ""))
	assert.Equal(t, models.Warning("Project must be set to validate this field."), validator.ValidateChannel(ctx, "Hotfix", ""))
	assert.Equal(t, models.Warning("Unable to validate field - Project not found."), validator.ValidateChannel(ctx, "Hotfix", "Missing"))
	assert.Equal(t, models.Error("Channel not found."), validator.ValidateChannel(ctx, "Beta", "My Project"))
	assert.Equal(t, models.Warning("Channel name case does not match. Did you mean 'Hotfix'?"), validator.ValidateChannel(ctx, "hotfix", "My Project"))
	assert.Equal(t, models.Ok(), validator.ValidateChannel(ctx, "Hotfix", "My Project"))
}

func TestValidateTenants(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Ok(), validator.ValidateTenant(ctx, ""))
	assert.Equal(t, models.Error("Tenant not found."), validator.ValidateTenant(ctx, "Globex"))
	assert.Equal(t, models.Warning("Tenant name case does not match. Did you mean 'Acme'?"), validator.ValidateTenants(ctx, "acme"))
	assert.Equal(t, models.Error("Tenant not found."), validator.ValidateTenants(ctx, "Acme\nGlobex"))
}

func TestValidateTenantTags(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Ok(), validator.ValidateTenantTags(ctx, ""))
	assert.Equal(t, models.Ok(), validator.ValidateTenantTags(ctx, "Region/East"))
	assert.Equal(t, models.Warning("Tenant tag case does not match. Did you mean 'Region/East'?"), validator.ValidateTenantTag(ctx, "region/east"))
	assert.Equal(t, models.Error("Tenant tag not found."), validator.ValidateTenantTags(ctx, "Region/East,Region/West"))
}

func TestValidateRelease(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Error("Please provide a release version."), validator.ValidateRelease(ctx, "", "My Project", models.ReleaseMustExist))
	assert.Equal(t, models.Warning("Project must be set to validate this field."), validator.ValidateRelease(ctx, "1.0.0", "", models.ReleaseMustExist))
	assert.Equal(t, models.Warning("Unable to validate field - Project not found."), validator.ValidateRelease(ctx, "1.0.0", "Missing", models.ReleaseMustExist))
	assert.Equal(t, models.Ok(), validator.ValidateRelease(ctx, "1.0.0", "My Project", models.ReleaseMustExist))
	assert.Equal(t, models.Error("Release 2.0.0 doesn't exist for project 'My Project'!"), validator.ValidateRelease(ctx, "2.0.0", "My Project", models.ReleaseMustExist))
	assert.Equal(t, models.Error("Release 1.0.0 already exists for project 'My Project'!"), validator.ValidateRelease(ctx, "1.0.0", "My Project", models.ReleaseMustNotExist))
	assert.Equal(t, models.Ok(), validator.ValidateRelease(ctx, "2.0.0", "My Project", models.ReleaseMustNotExist))
}

func TestValidateSpace(t *testing.T) {
	validator := createValidator()
	ctx := context.Background()

	assert.Equal(t, models.Ok(), validator.ValidateSpace(ctx, ""))
	assert.Equal(t, models.Ok(), validator.ValidateSpace(ctx, "Spaces-1"))
	assert.Equal(t, models.Error("Space not found."), validator.ValidateSpace(ctx, "Spaces-2"))
}

func TestApiFailuresBecomeErrors(t *testing.T) {
	client := octopustest.NewMockOctopusClient()
	client.Err = &octopus_apis.OctopusApiError{StatusCode: 401, Message: "You must be logged in to request this resource."}
	validator := NewOctopusValidator(client)

	assert.Equal(t, models.Error("You must be logged in to request this resource."), validator.ValidateProject(context.Background(), "My Project"))

	client.Err = fmt.Errorf("wrapped: %w", octopus_apis.ErrInvalidServerUrl)
	assert.Equal(t, models.Error("There was a problem with your Octopus URL. Please check it."), validator.ValidateEnvironment(context.Background(), "Development"))

	client.Err = errors.New("connection refused")
	assert.Equal(t, models.Error("connection refused"), validator.ValidateTenant(context.Background(), "Acme"))

	var apiErr *octopus_apis.OctopusApiError
	assert.True(t, errors.As(validator.Failures(), &apiErr))
	assert.Len(t, strings.Split(validator.Failures().Error(), "\n"), 3)
}

func TestNoFailuresWhenServerResponds(t *testing.T) {
	validator := createValidator()

	validator.ValidateProject(context.Background(), "Missing")

	assert.NoError(t, validator.Failures())
}

type staticServers map[string]bool

func (s staticServers) HasServer(serverId string) bool {
	return s[serverId]
}

func TestValidateServerId(t *testing.T) {
	servers := staticServers{"main": true}

	assert.Equal(t, models.Error("Please select an instance of Octopus Deploy."), ValidateServerId(servers, ""))
	assert.Equal(t, models.Error("There are no Octopus Deploy servers configured with this Server Id."), ValidateServerId(servers, "other"))
	assert.Equal(t, models.Ok(), ValidateServerId(servers, "main"))
}
