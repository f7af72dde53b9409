package validators

import (
	"context"
	"errors"
	"testing"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStepValidator() *StepValidator {
	return NewStepValidator(createValidator())
}

func fieldErrors(t *testing.T, err error) []string {
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr), "expected a multierror, got %v", err)

	return lo.Map(merr.Errors, func(item error, index int) string {
		var fieldErr *FieldError
		require.True(t, errors.As(item, &fieldErr))
		return fieldErr.Field
	})
}

func TestValidCreateReleaseStep(t *testing.T) {
	validation := createStepValidator().ValidateCreateRelease(context.Background(), models.CreateReleaseStep{
		Project:        "My Project",
		ReleaseVersion: "1.1.0",
		Channel:        "hotfix",
	})

	assert.NoError(t, validation.Err())
	assert.Equal(t, []string{"channel: Channel name case does not match. Did you mean 'Hotfix'?"}, validation.Warnings())
}

func TestCreateReleaseStepAggregatesErrors(t *testing.T) {
	validation := createStepValidator().ValidateCreateRelease(context.Background(), models.CreateReleaseStep{
		Project:           "My Project",
		ReleaseVersion:    "1.0.0",
		PackageConfigs:    []models.PackageConfiguration{{PackageName: "Deploy"}},
		DeployThisRelease: true,
		DeploymentOptions: models.DeploymentOptions{
			Environment:       "Staging",
			Variables:         "novalue",
			WaitForDeployment: true,
			DeploymentTimeout: "forever",
		},
	})

	assert.ElementsMatch(t, []string{"releaseVersion", "packageConfigs[0]", "environment", "deploymentTimeout", "variables"}, fieldErrors(t, validation.Err()))
}

func TestCreateReleaseStepIgnoresDeploymentOptionsWhenNotDeploying(t *testing.T) {
	validation := createStepValidator().ValidateCreateRelease(context.Background(), models.CreateReleaseStep{
		Project:           "My Project",
		DeploymentOptions: models.DeploymentOptions{Environment: "Staging"},
	})

	assert.NoError(t, validation.Err())
}

func TestDeployReleaseStep(t *testing.T) {
	validator := createStepValidator()

	valid := validator.ValidateDeployRelease(context.Background(), models.DeployReleaseStep{
		Project:           "My Project",
		ReleaseVersion:    "1.0.0",
		DeploymentOptions: models.DeploymentOptions{Environment: "Development\nProduction", Tenant: "Acme"},
	})

	assert.NoError(t, valid.Err())

	invalid := validator.ValidateDeployRelease(context.Background(), models.DeployReleaseStep{
		CommonStepOptions: models.CommonStepOptions{ServerSelection: models.ServerSelection{SpaceId: "Spaces-9"}},
		Project:           "My Project",
		ReleaseVersion:    "9.9.9",
	})

	assert.ElementsMatch(t, []string{"spaceId", "releaseVersion", "environment"}, fieldErrors(t, invalid.Err()))
}

func TestValidatePush(t *testing.T) {
	assert.NoError(t, ValidatePush(models.PushPackageStep{Workspace: "/build", PackagePaths: "*.zip", OverwriteMode: "overwriteexisting"}).Err())

	validation := ValidatePush(models.PushPackageStep{OverwriteMode: "Sometimes"})

	assert.ElementsMatch(t, []string{"workspace", "packagePaths", "overwriteMode"}, fieldErrors(t, validation.Err()))
}

func TestValidateBuildInformation(t *testing.T) {
	assert.NoError(t, ValidateBuildInformation(models.PushBuildInformationStep{PackageIds: "MyApp", PackageVersion: "1.0.0"}).Err())

	validation := ValidateBuildInformation(models.PushBuildInformationStep{MaxCommits: -1})

	assert.ElementsMatch(t, []string{"packageIds", "packageVersion", "maxCommits"}, fieldErrors(t, validation.Err()))
}
