package models

// ErrorResponse is the response sent to the client if there was an error
type ErrorResponse struct {
	Status  string
	Message string
	Errors  []string `json:",omitempty"`
}

// ServerSelection identifies the configured Octopus server, and optionally the space, a request targets.
// An empty ServerId selects the default server.
type ServerSelection struct {
	ServerId string
	SpaceId  string
}

// FieldValidationRequest is sent to validate a single step field as it is being entered
type FieldValidationRequest struct {
	ServerSelection
	Value            string
	Project          string
	ReleaseExistence ReleaseExistenceRequirement
}

// PackageConfiguration pins the version of a package referenced by a step
type PackageConfiguration struct {
	PackageName          string
	PackageReferenceName string
	PackageVersion       string
}

// DeploymentOptions are shared by the create release and deploy release steps. Tenant, TenantTag and
// Environment may hold several values separated by newlines or commas. Variables holds one
// name=value or name:value pair per line.
type DeploymentOptions struct {
	Environment       string
	Tenant            string
	TenantTag         string
	Variables         string
	WaitForDeployment bool
	DeploymentTimeout string
	CancelOnTimeout   bool
}

type CommonStepOptions struct {
	ServerSelection
	VerboseLogging bool
	AdditionalArgs string
}

type CreateReleaseStep struct {
	CommonStepOptions
	DeploymentOptions
	Project               string
	ReleaseVersion        string
	Channel               string
	DefaultPackageVersion string
	PackageConfigs        []PackageConfiguration
	ReleaseNotesFile      string
	DeployThisRelease     bool
}

type DeployReleaseStep struct {
	CommonStepOptions
	DeploymentOptions
	Project        string
	ReleaseVersion string
	Channel        string
}

type PushPackageStep struct {
	CommonStepOptions
	Workspace     string
	PackagePaths  string
	OverwriteMode string
}

type PushBuildInformationStep struct {
	CommonStepOptions
	PackageIds       string
	PackageVersion   string
	OverwriteMode    string
	OutputFile       string
	Workspace        string
	SinceCommit      string
	MaxCommits       int
	BuildInformation BuildInformation
}

// CommandPlan is the Octo CLI invocation a build step should launch. Arguments never contain the API
// key in clear text.
type CommandPlan struct {
	Tool        string
	Arguments   []string
	CommandLine string
	Warnings    []string          `json:",omitempty"`
	Files       map[string]string `json:",omitempty"`
}

// CreateReleaseRequest creates a release directly through the Octopus API
type CreateReleaseRequest struct {
	ServerSelection
	Project        string
	Channel        string
	ReleaseVersion string
	ReleaseNotes   string
	Packages       []PackageConfiguration
}

// DeployReleaseRequest deploys an existing release directly through the Octopus API
type DeployReleaseRequest struct {
	ServerSelection
	Project           string
	ReleaseVersion    string
	Environment       string
	Tenant            string
	Variables         string
	Comments          string
	WaitForDeployment bool
	DeploymentTimeout string
}

type DeploymentResult struct {
	DeploymentId string
	TaskId       string
	TaskState    string
	Completed    bool
}
