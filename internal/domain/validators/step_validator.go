package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/inputs"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// FieldError is a validation error against a single step field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// StepValidation collects the results of validating every field of a step
type StepValidation struct {
	Fields []models.FieldValidation
}

func (s *StepValidation) add(field string, result models.ValidationResult) {
	s.Fields = append(s.Fields, models.FieldValidation{Field: field, ValidationResult: result})
}

// Warnings returns the warning messages, prefixed with the field they apply to
func (s *StepValidation) Warnings() []string {
	return lo.FilterMap(s.Fields, func(item models.FieldValidation, index int) (string, bool) {
		return item.Field + ": " + item.Message, item.Kind == models.ValidationWarning
	})
}

// Err returns every field error as a *multierror.Error, or nil if there are none. Warnings never
// produce an error.
func (s *StepValidation) Err() error {
	var result *multierror.Error

	for _, field := range s.Fields {
		if field.IsError() {
			result = multierror.Append(result, &FieldError{Field: field.Field, Message: field.Message})
		}
	}

	return result.ErrorOrNil()
}

// StepValidator validates complete build steps before their commands are planned
type StepValidator struct {
	octopus *OctopusValidator
}

func NewStepValidator(octopus *OctopusValidator) *StepValidator {
	return &StepValidator{octopus: octopus}
}

func (v *StepValidator) ValidateCreateRelease(ctx context.Context, step models.CreateReleaseStep) *StepValidation {
	validation := &StepValidation{}

	validation.add("spaceId", v.octopus.ValidateSpace(ctx, step.SpaceId))
	validation.add("project", v.octopus.ValidateProject(ctx, step.Project))
	validation.add("channel", v.octopus.ValidateChannel(ctx, step.Channel, step.Project))

	if step.ReleaseVersion != "" {
		validation.add("releaseVersion", v.octopus.ValidateRelease(ctx, step.ReleaseVersion, step.Project, models.ReleaseMustNotExist))
	}

	for index, packageConfig := range step.PackageConfigs {
		validation.add(fmt.Sprintf("packageConfigs[%d]", index), validatePackageConfig(packageConfig))
	}

	if step.DeployThisRelease {
		v.validateDeploymentOptions(ctx, validation, step.DeploymentOptions)
	}

	return validation
}

func (v *StepValidator) ValidateDeployRelease(ctx context.Context, step models.DeployReleaseStep) *StepValidation {
	validation := &StepValidation{}

	validation.add("spaceId", v.octopus.ValidateSpace(ctx, step.SpaceId))
	validation.add("project", v.octopus.ValidateProject(ctx, step.Project))
	validation.add("channel", v.octopus.ValidateChannel(ctx, step.Channel, step.Project))
	validation.add("releaseVersion", v.octopus.ValidateRelease(ctx, step.ReleaseVersion, step.Project, models.ReleaseMustExist))
	v.validateDeploymentOptions(ctx, validation, step.DeploymentOptions)

	return validation
}

// ValidatePush checks the fields of a push step. It does not need a server, so it is a plain function.
func ValidatePush(step models.PushPackageStep) *StepValidation {
	validation := &StepValidation{}

	if strings.TrimSpace(step.Workspace) == "" {
		validation.add("workspace", models.Error("Please provide the workspace to search for packages."))
	}

	if len(inputs.SplitLines(step.PackagePaths)) == 0 {
		validation.add("packagePaths", models.Error("Please provide at least one package path."))
	}

	validation.add("overwriteMode", validateOverwriteMode(step.OverwriteMode))

	return validation
}

func ValidateBuildInformation(step models.PushBuildInformationStep) *StepValidation {
	validation := &StepValidation{}

	if len(inputs.SplitValues(step.PackageIds)) == 0 {
		validation.add("packageIds", models.Error("Please provide at least one package ID."))
	}

	if strings.TrimSpace(step.PackageVersion) == "" {
		validation.add("packageVersion", models.Error("Please provide a package version."))
	}

	if step.MaxCommits < 0 {
		validation.add("maxCommits", models.Error("The maximum number of commits can not be negative."))
	}

	validation.add("overwriteMode", validateOverwriteMode(step.OverwriteMode))

	return validation
}

func (v *StepValidator) validateDeploymentOptions(ctx context.Context, validation *StepValidation, options models.DeploymentOptions) {
	validation.add("environment", v.octopus.ValidateEnvironments(ctx, options.Environment))
	validation.add("tenant", v.octopus.ValidateTenants(ctx, options.Tenant))
	validation.add("tenantTag", v.octopus.ValidateTenantTags(ctx, options.TenantTag))

	if options.WaitForDeployment {
		validation.add("deploymentTimeout", ValidateTimeSpan(options.DeploymentTimeout))
	}

	if _, err := inputs.ParseVariables(options.Variables); err != nil {
		validation.add("variables", models.Error(err.Error()))
	}
}

func validatePackageConfig(packageConfig models.PackageConfiguration) models.ValidationResult {
	if strings.TrimSpace(packageConfig.PackageName) == "" {
		return models.Error("Please provide a package name.")
	}

	if strings.TrimSpace(packageConfig.PackageVersion) == "" {
		return models.Error("Please provide a package version.")
	}

	return models.Ok()
}

func validateOverwriteMode(mode string) models.ValidationResult {
	if _, ok := models.ParseOverwriteMode(mode); !ok {
		return models.Error(fmt.Sprintf("Overwrite mode must be one of %s.", strings.Join(lo.Map(models.OverwriteModes, func(item models.OverwriteMode, index int) string {
			return string(item)
		}), ", ")))
	}

	return models.Ok()
}
