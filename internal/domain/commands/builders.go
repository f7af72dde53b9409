package commands

import (
	"fmt"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/inputs"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

const DefaultBuildInformationFile = "octopus.buildinfo"

// Builder turns build steps into Octo CLI commands
type Builder struct {
	tool string
}

func NewBuilder(tool string) *Builder {
	if strings.TrimSpace(tool) == "" {
		tool = "octo"
	}

	return &Builder{tool: tool}
}

func (b *Builder) CreateRelease(step models.CreateReleaseStep, connection Connection) (*OctoCommand, error) {
	command := NewOctoCommand(b.tool, "create-release").
		Add("--project", step.Project).
		AddIfSet("--version", step.ReleaseVersion).
		AddIfSet("--channel", step.Channel).
		AddIfSet("--packageVersion", step.DefaultPackageVersion)

	command.AddEach("--package", lo.Map(step.PackageConfigs, func(item models.PackageConfiguration, index int) string {
		return packageArgument(item)
	}))

	command.AddIfSet("--releasenotesfile", step.ReleaseNotesFile)

	if step.DeployThisRelease {
		command.AddEach("--deployto", inputs.SplitValues(step.Environment))

		if err := addDeploymentOptions(command, step.DeploymentOptions); err != nil {
			return nil, err
		}
	}

	return finish(command, connection, step.CommonStepOptions)
}

func (b *Builder) DeployRelease(step models.DeployReleaseStep, connection Connection) (*OctoCommand, error) {
	command := NewOctoCommand(b.tool, "deploy-release").
		Add("--project", step.Project).
		Add("--releasenumber", step.ReleaseVersion).
		AddEach("--deployto", inputs.SplitValues(step.Environment)).
		AddIfSet("--channel", step.Channel)

	if err := addDeploymentOptions(command, step.DeploymentOptions); err != nil {
		return nil, err
	}

	return finish(command, connection, step.CommonStepOptions)
}

// Push finds the packages in the workspace and pushes each of them
func (b *Builder) Push(step models.PushPackageStep, connection Connection) (*OctoCommand, error) {
	packages, err := ResolvePackagePaths(step.Workspace, inputs.SplitLines(step.PackagePaths))

	if err != nil {
		return nil, err
	}

	mode, err := overwriteMode(step.OverwriteMode)

	if err != nil {
		return nil, err
	}

	command := NewOctoCommand(b.tool, "push").
		AddEach("--package", packages).
		Add("--overwrite-mode", string(mode))

	return finish(command, connection, step.CommonStepOptions)
}

// BuildInformation pushes the build information document saved at file
func (b *Builder) BuildInformation(step models.PushBuildInformationStep, file string, connection Connection) (*OctoCommand, error) {
	mode, err := overwriteMode(step.OverwriteMode)

	if err != nil {
		return nil, err
	}

	command := NewOctoCommand(b.tool, "build-information").
		AddEach("--package-id", inputs.SplitValues(step.PackageIds)).
		Add("--version", step.PackageVersion).
		Add("--file", file).
		Add("--overwrite-mode", string(mode))

	return finish(command, connection, step.CommonStepOptions)
}

func addDeploymentOptions(command *OctoCommand, options models.DeploymentOptions) error {
	command.
		AddEach("--tenant", inputs.SplitValues(options.Tenant)).
		AddEach("--tenanttag", inputs.SplitValues(options.TenantTag))

	variables, err := inputs.ParseVariables(options.Variables)

	if err != nil {
		return fmt.Errorf("octobuildstep-commands-variableserror - %w", err)
	}

	command.AddEach("--variable", lo.Map(variables, func(item inputs.Variable, index int) string {
		return item.Name + ":" + item.Value
	}))

	if options.WaitForDeployment {
		command.
			AddFlag("--progress").
			AddIfSet("--deploymenttimeout", options.DeploymentTimeout)

		if options.CancelOnTimeout {
			command.AddFlag("--cancelontimeout")
		}
	}

	return nil
}

func finish(command *OctoCommand, connection Connection, options models.CommonStepOptions) (*OctoCommand, error) {
	command.AddConnection(connection, options.VerboseLogging)

	if err := command.AddAdditionalArgs(options.AdditionalArgs); err != nil {
		return nil, err
	}

	return command, nil
}

// packageArgument formats a package version as StepName[:PackageReferenceName]:Version
func packageArgument(packageConfig models.PackageConfiguration) string {
	parts := lo.Filter([]string{
		strings.TrimSpace(packageConfig.PackageName),
		strings.TrimSpace(packageConfig.PackageReferenceName),
		strings.TrimSpace(packageConfig.PackageVersion),
	}, func(item string, index int) bool {
		return item != ""
	})

	return strings.Join(parts, ":")
}

func overwriteMode(name string) (models.OverwriteMode, error) {
	mode, ok := models.ParseOverwriteMode(name)

	if !ok {
		return "", fmt.Errorf("octobuildstep-commands-overwriteerror - %q is not a valid overwrite mode", name)
	}

	return mode, nil
}
