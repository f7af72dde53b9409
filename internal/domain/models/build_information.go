package models

// Commit is a single VCS commit included in build information
type Commit struct {
	Id      string
	Comment string
}

// BuildInformation is the document pushed to Octopus with `octo build-information`
type BuildInformation struct {
	BuildEnvironment string
	BuildNumber      string
	BuildUrl         string
	Branch           string
	VcsType          string
	VcsRoot          string
	VcsCommitNumber  string
	Commits          []Commit
}
