package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConnection = Connection{
	ServerUrl: "https://octopus.example.com",
	ApiKey:    "API-SECRET",
	SpaceId:   "Spaces-1",
}

func TestCreateReleaseCommand(t *testing.T) {
	command, err := NewBuilder("").CreateRelease(models.CreateReleaseStep{
		CommonStepOptions: models.CommonStepOptions{
			VerboseLogging: true,
			AdditionalArgs: `--ignoreexisting --releasenotes "Built by CI"`,
		},
		Project:               "My Project",
		ReleaseVersion:        "1.0.0",
		Channel:               "Hotfix",
		DefaultPackageVersion: "1.0.0",
		PackageConfigs: []models.PackageConfiguration{
			{PackageName: "Deploy", PackageVersion: "1.0.1"},
			{PackageName: "Deploy", PackageReferenceName: "Sidecar", PackageVersion: "2.0.0"},
		},
		ReleaseNotesFile:  "notes.md",
		DeployThisRelease: true,
		DeploymentOptions: models.DeploymentOptions{
			Environment:       "Development",
			Tenant:            "Acme\nGlobex",
			TenantTag:         "Region/East",
			Variables:         "Approver=Jane\nUrl:http://example.org",
			WaitForDeployment: true,
			DeploymentTimeout: "00:30:00",
			CancelOnTimeout:   true,
		},
	}, testConnection)

	require.NoError(t, err)
	assert.Equal(t, "octo", command.Tool())
	assert.Equal(t, []string{
		"create-release",
		"--project", "My Project",
		"--version", "1.0.0",
		"--channel", "Hotfix",
		"--packageVersion", "1.0.0",
		"--package", "Deploy:1.0.1",
		"--package", "Deploy:Sidecar:2.0.0",
		"--releasenotesfile", "notes.md",
		"--deployto", "Development",
		"--tenant", "Acme",
		"--tenant", "Globex",
		"--tenanttag", "Region/East",
		"--variable", "Approver:Jane",
		"--variable", "Url:http://example.org",
		"--progress",
		"--deploymenttimeout", "00:30:00",
		"--cancelontimeout",
		"--server", "https://octopus.example.com",
		"--apiKey", "API-SECRET",
		"--space", "Spaces-1",
		"--debug",
		"--ignoreexisting",
		"--releasenotes", "Built by CI",
	}, command.Arguments())
}

func TestCreateReleaseWithoutDeployment(t *testing.T) {
	command, err := NewBuilder("octo").CreateRelease(models.CreateReleaseStep{
		Project:           "My Project",
		DeploymentOptions: models.DeploymentOptions{Environment: "Development", WaitForDeployment: true},
	}, Connection{ServerUrl: "https://octopus.example.com", ApiKey: "API-SECRET"})

	require.NoError(t, err)
	assert.Equal(t, []string{"create-release", "--project", "My Project", "--server", "https://octopus.example.com", "--apiKey", "API-SECRET"}, command.Arguments())
}

func TestDeployReleaseCommand(t *testing.T) {
	command, err := NewBuilder("/usr/bin/octo").DeployRelease(models.DeployReleaseStep{
		Project:        "My Project",
		ReleaseVersion: "1.0.0",
		Channel:        "Default",
		DeploymentOptions: models.DeploymentOptions{
			Environment:       "Development, Production",
			WaitForDeployment: true,
		},
	}, testConnection)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"deploy-release",
		"--project", "My Project",
		"--releasenumber", "1.0.0",
		"--deployto", "Development",
		"--deployto", "Production",
		"--channel", "Default",
		"--progress",
		"--server", "https://octopus.example.com",
		"--apiKey", "API-SECRET",
		"--space", "Spaces-1",
	}, command.Arguments())
}

func TestMaskedCommandLine(t *testing.T) {
	command, err := NewBuilder("octo").DeployRelease(models.DeployReleaseStep{
		Project:           "My Project",
		ReleaseVersion:    "1.0.0",
		DeploymentOptions: models.DeploymentOptions{Environment: "Development"},
	}, testConnection)
	require.NoError(t, err)

	assert.NotContains(t, command.Masked(), "API-SECRET")
	assert.Contains(t, command.Arguments(), "API-SECRET")
	assert.Equal(t, `octo deploy-release --project 'My Project' --releasenumber 1.0.0 --deployto Development --server https://octopus.example.com --apiKey \*\*\*\*\*\*\*\* --space Spaces-1`, command.CommandLine())

	plan := command.Plan([]string{"a warning"}, nil)
	assert.Equal(t, command.Masked(), plan.Arguments)
	assert.Equal(t, []string{"a warning"}, plan.Warnings)
}

func TestInvalidAdditionalArgs(t *testing.T) {
	_, err := NewBuilder("octo").CreateRelease(models.CreateReleaseStep{
		CommonStepOptions: models.CommonStepOptions{AdditionalArgs: `--releasenotes "unterminated`},
		Project:           "My Project",
	}, testConnection)

	assert.Error(t, err)
}

func TestInvalidVariables(t *testing.T) {
	_, err := NewBuilder("octo").DeployRelease(models.DeployReleaseStep{
		Project:           "My Project",
		ReleaseVersion:    "1.0.0",
		DeploymentOptions: models.DeploymentOptions{Environment: "Development", Variables: "no separator"},
	}, testConnection)

	assert.Error(t, err)
}

func createWorkspace(t *testing.T, files ...string) string {
	workspace := t.TempDir()

	for _, file := range files {
		path := filepath.Join(workspace, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("package"), 0o644))
	}

	return workspace
}

func TestPushCommand(t *testing.T) {
	workspace := createWorkspace(t, "MyApp.1.0.0.zip", "dist/Web.1.0.0.nupkg", "dist/nested/Api.1.0.0.nupkg", "README.md")

	command, err := NewBuilder("octo").Push(models.PushPackageStep{
		Workspace:     workspace,
		PackagePaths:  "*.zip\n**/*.nupkg",
		OverwriteMode: "IgnoreIfExists",
	}, testConnection)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"push",
		"--package", filepath.Join(workspace, "MyApp.1.0.0.zip"),
		"--package", filepath.Join(workspace, "dist", "Web.1.0.0.nupkg"),
		"--package", filepath.Join(workspace, "dist", "nested", "Api.1.0.0.nupkg"),
		"--overwrite-mode", "IgnoreIfExists",
		"--server", "https://octopus.example.com",
		"--apiKey", "API-SECRET",
		"--space", "Spaces-1",
	}, command.Arguments())
}

func TestResolvePackagePaths(t *testing.T) {
	workspace := createWorkspace(t, "a.zip", "dist/b.zip", ".git/objects/c.zip")

	topLevel, err := ResolvePackagePaths(workspace, []string{"*.zip"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(workspace, "a.zip")}, topLevel)

	everywhere, err := ResolvePackagePaths(workspace, []string{"**/*.zip"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(workspace, "a.zip"), filepath.Join(workspace, "dist", "b.zip")}, everywhere)

	_, err = ResolvePackagePaths(workspace, []string{"*.nupkg"})
	assert.True(t, errors.Is(err, ErrNoPackagesMatched))

	_, err = ResolvePackagePaths(workspace, []string{"[unclosed"})
	assert.Error(t, err)
}

func TestBuildInformationCommand(t *testing.T) {
	command, err := NewBuilder("octo").BuildInformation(models.PushBuildInformationStep{
		PackageIds:     "MyApp\nMyApp.Database",
		PackageVersion: "1.0.0",
	}, "/build/octopus.buildinfo", testConnection)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"build-information",
		"--package-id", "MyApp",
		"--package-id", "MyApp.Database",
		"--version", "1.0.0",
		"--file", "/build/octopus.buildinfo",
		"--overwrite-mode", "FailIfExists",
		"--server", "https://octopus.example.com",
		"--apiKey", "API-SECRET",
		"--space", "Spaces-1",
	}, command.Arguments())

	_, err = NewBuilder("octo").BuildInformation(models.PushBuildInformationStep{OverwriteMode: "Never"}, "file", testConnection)
	assert.Error(t, err)
}
