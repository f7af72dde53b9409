package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/inputs"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/octopus_apis"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

const invalidUrlMessage = "There was a problem with your Octopus URL. Please check it."
const projectRequiredMessage = "Project must be set to validate this field."
const projectNotFoundWarning = "Unable to validate field - Project not found."

// OctopusValidator checks step fields against the resources that exist on an Octopus server. Names
// that only differ by case produce a warning naming the resource as it is stored.
type OctopusValidator struct {
	client   octopus_apis.OctopusClient
	failures *multierror.Error
}

func NewOctopusValidator(client octopus_apis.OctopusClient) *OctopusValidator {
	return &OctopusValidator{client: client}
}

func (v *OctopusValidator) ValidateProject(ctx context.Context, name string) models.ValidationResult {
	if name == "" {
		return models.Error("Please provide a project name.")
	}

	project, err := v.client.GetProjectByName(ctx, name, true)

	if err != nil {
		return v.failed(err)
	}

	if project == nil {
		return models.Error("Project not found.")
	}

	return caseResult("Project name", name, project.Name)
}

func (v *OctopusValidator) ValidateEnvironment(ctx context.Context, name string) models.ValidationResult {
	if name == "" {
		return models.Error("Please provide an environment name.")
	}

	environment, err := v.client.GetEnvironmentByName(ctx, name, true)

	if err != nil {
		return v.failed(err)
	}

	if environment == nil {
		return models.Error("Environment not found.")
	}

	return caseResult("Environment name", name, environment.Name)
}

// ValidateEnvironments checks every environment in a newline or comma separated list
func (v *OctopusValidator) ValidateEnvironments(ctx context.Context, names string) models.ValidationResult {
	environments := inputs.SplitValues(names)

	if len(environments) == 0 {
		return models.Error("Please provide an environment name.")
	}

	return v.validateEach(environments, func(name string) models.ValidationResult {
		return v.ValidateEnvironment(ctx, name)
	})
}

// ValidateChannel checks the channel exists in the project. The channel is optional.
func (v *OctopusValidator) ValidateChannel(ctx context.Context, channelName string, projectName string) models.ValidationResult {
	if channelName == "" {
		return models.Ok()
	}

	if projectName == "" {
		return models.Warning(projectRequiredMessage)
	}

	project, err := v.client.GetProjectByName(ctx, projectName, true)

	if err != nil {
		return v.failed(err)
	}

	if project == nil {
		return models.Warning(projectNotFoundWarning)
	}

	channel, err := v.client.GetChannelByName(ctx, project.ID, channelName, true)

	if err != nil {
		return v.failed(err)
	}

	if channel == nil {
		return models.Error("Channel not found.")
	}

	return caseResult("Channel name", channelName, channel.Name)
}

// ValidateTenant checks the tenant exists. The tenant is optional.
func (v *OctopusValidator) ValidateTenant(ctx context.Context, name string) models.ValidationResult {
	if name == "" {
		return models.Ok()
	}

	tenant, err := v.client.GetTenantByName(ctx, name, true)

	if err != nil {
		return v.failed(err)
	}

	if tenant == nil {
		return models.Error("Tenant not found.")
	}

	return caseResult("Tenant name", name, tenant.Name)
}

func (v *OctopusValidator) ValidateTenants(ctx context.Context, names string) models.ValidationResult {
	return v.validateEach(inputs.SplitValues(names), func(name string) models.ValidationResult {
		return v.ValidateTenant(ctx, name)
	})
}

// ValidateTenantTag checks a "Tag Set/Tag" canonical name. The tag is optional.
func (v *OctopusValidator) ValidateTenantTag(ctx context.Context, canonicalName string) models.ValidationResult {
	if canonicalName == "" {
		return models.Ok()
	}

	tag, err := v.client.GetTagByCanonicalName(ctx, canonicalName, true)

	if err != nil {
		return v.failed(err)
	}

	if tag == nil {
		return models.Error("Tenant tag not found.")
	}

	return caseResult("Tenant tag", canonicalName, tag.CanonicalTagName)
}

func (v *OctopusValidator) ValidateTenantTags(ctx context.Context, canonicalNames string) models.ValidationResult {
	return v.validateEach(inputs.SplitValues(canonicalNames), func(name string) models.ValidationResult {
		return v.ValidateTenantTag(ctx, name)
	})
}

// ValidateRelease checks whether the release version exists in the project, as the requirement expects
func (v *OctopusValidator) ValidateRelease(ctx context.Context, version string, projectName string, requirement models.ReleaseExistenceRequirement) models.ValidationResult {
	if version == "" {
		return models.Error("Please provide a release version.")
	}

	if projectName == "" {
		return models.Warning(projectRequiredMessage)
	}

	project, err := v.client.GetProjectByName(ctx, projectName, true)

	if err != nil {
		return v.failed(err)
	}

	if project == nil {
		return models.Warning(projectNotFoundWarning)
	}

	release, err := v.client.GetReleaseByVersion(ctx, project.ID, version)

	if err != nil {
		return v.failed(err)
	}

	if requirement == models.ReleaseMustExist && release == nil {
		return models.Error(fmt.Sprintf("Release %s doesn't exist for project '%s'!", version, projectName))
	}

	if requirement == models.ReleaseMustNotExist && release != nil {
		return models.Error(fmt.Sprintf("Release %s already exists for project '%s'!", version, projectName))
	}

	return models.Ok()
}

// ValidateSpace checks the space exists. An empty space selects the default space.
func (v *OctopusValidator) ValidateSpace(ctx context.Context, spaceId string) models.ValidationResult {
	if spaceId == "" {
		return models.Ok()
	}

	space, err := v.client.GetSpaceById(ctx, spaceId)

	if err != nil {
		return v.failed(err)
	}

	if space == nil {
		return models.Error("Space not found.")
	}

	return models.Ok()
}

// validateEach returns the first error, or else the first warning, found in the values
func (v *OctopusValidator) validateEach(values []string, validate func(value string) models.ValidationResult) models.ValidationResult {
	results := lo.Map(values, func(item string, index int) models.ValidationResult {
		return validate(item)
	})

	if failed, found := lo.Find(results, func(item models.ValidationResult) bool {
		return item.Kind == models.ValidationError
	}); found {
		return failed
	}

	if warning, found := lo.Find(results, func(item models.ValidationResult) bool {
		return item.Kind == models.ValidationWarning
	}); found {
		return warning
	}

	return models.Ok()
}

// failed records a failure to query the server and reports it against the field
func (v *OctopusValidator) failed(err error) models.ValidationResult {
	v.failures = multierror.Append(v.failures, err)
	return ErrorResult(err)
}

// Failures returns the errors from every query to the server that failed during validation, or nil
func (v *OctopusValidator) Failures() error {
	if v.failures == nil {
		return nil
	}

	v.failures.ErrorFormat = func(errs []error) string {
		return strings.Join(lo.Map(errs, func(item error, index int) string {
			return item.Error()
		}), "\n")
	}

	return v.failures.ErrorOrNil()
}

func caseResult(label string, entered string, actual string) models.ValidationResult {
	if entered == actual {
		return models.Ok()
	}

	return models.Warning(fmt.Sprintf("%s case does not match. Did you mean '%s'?", label, actual))
}

// ErrorResult converts a failure to reach the Octopus server into the message shown against the field
func ErrorResult(err error) models.ValidationResult {
	if errors.Is(err, octopus_apis.ErrInvalidServerUrl) {
		return models.Error(invalidUrlMessage)
	}

	var apiErr *octopus_apis.OctopusApiError
	if errors.As(err, &apiErr) {
		return models.Error(apiErr.Message)
	}

	return models.Error(err.Error())
}
