package models

import "time"

// Project is an Octopus project
type Project struct {
	ID             string `json:"Id"`
	Name           string
	Slug           string
	Description    string
	IsDisabled     bool
	LifecycleID    string `json:"LifecycleId"`
	ProjectGroupID string `json:"ProjectGroupId"`
	SpaceID        string `json:"SpaceId"`
}

// Environment is an Octopus deployment environment
type Environment struct {
	ID          string `json:"Id"`
	Name        string
	Description string
	SortOrder   int
	SpaceID     string `json:"SpaceId"`
}

// Channel is a release channel within a project
type Channel struct {
	ID          string `json:"Id"`
	Name        string
	Description string
	IsDefault   bool
	ProjectID   string `json:"ProjectId"`
	LifecycleID string `json:"LifecycleId"`
}

type SelectedPackage struct {
	ActionName           string
	PackageReferenceName string
	StepName             string
	Version              string
}

// Release is a versioned snapshot of a project's process and variables
type Release struct {
	ID               string `json:"Id,omitempty"`
	Version          string
	ProjectID        string            `json:"ProjectId"`
	ChannelID        string            `json:"ChannelId,omitempty"`
	ReleaseNotes     string            `json:",omitempty"`
	Assembled        *time.Time        `json:",omitempty"`
	SelectedPackages []SelectedPackage `json:",omitempty"`
	SpaceID          string            `json:"SpaceId,omitempty"`
}

// Tenant is an Octopus tenant along with the project/environment pairs it is connected to
type Tenant struct {
	ID                  string `json:"Id"`
	Name                string
	Description         string
	TenantTags          []string
	ProjectEnvironments map[string][]string
	SpaceID             string `json:"SpaceId"`
}

// Deployment is both the request and response body of a deployment
type Deployment struct {
	ID                       string `json:"Id,omitempty"`
	ReleaseID                string `json:"ReleaseId"`
	EnvironmentID            string `json:"EnvironmentId"`
	TenantID                 string `json:"TenantId,omitempty"`
	TaskID                   string `json:"TaskId,omitempty"`
	Comments                 string `json:",omitempty"`
	ForcePackageDownload     bool
	ForcePackageRedeployment bool
	FormValues               map[string]string `json:",omitempty"`
	Created                  *time.Time        `json:",omitempty"`
}

// Task is a server task, which is how Octopus tracks deployments
type Task struct {
	ID                   string `json:"Id"`
	Name                 string
	Description          string
	State                string
	IsCompleted          bool
	FinishedSuccessfully bool
	HasWarningsOrErrors  bool
	ErrorMessage         string
	Duration             string
	QueueTime            time.Time
	CompletedTime        *time.Time
}

const (
	TaskStateQueued    = "Queued"
	TaskStateExecuting = "Executing"
	TaskStateSuccess   = "Success"
	TaskStateFailed    = "Failed"
	TaskStateCanceled  = "Canceled"
	TaskStateTimedOut  = "TimedOut"
)

// Space is an Octopus space, the top level partition of all other resources
type Space struct {
	ID                 string `json:"Id"`
	Name               string
	Description        string
	IsDefault          bool
	TaskQueueStopped   bool
	SpaceManagersTeams []string
}

type Tag struct {
	ID               string `json:"Id"`
	Name             string
	CanonicalTagName string
	Color            string
	Description      string
	SortOrder        int
}

// TagSet groups tags that can be applied to tenants
type TagSet struct {
	ID          string `json:"Id"`
	Name        string
	Description string
	SortOrder   int
	Tags        []Tag
}

// PromptedVariable is a variable that must be supplied when a deployment is created. ElementID is the
// key the server expects in Deployment.FormValues.
type PromptedVariable struct {
	ElementID   string
	Name        string
	Label       string
	Description string
	Required    bool
	Type        string
}

// PagedCollection is the envelope the Octopus API wraps around paged resource lists
type PagedCollection[T any] struct {
	ItemType       string
	TotalResults   int
	ItemsPerPage   int
	NumberOfPages  int
	LastPageNumber int
	Items          []T
	Links          map[string]string
}
