package buildinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const DefaultBuildEnvironment = "Jenkins"
const DefaultMaxCommits = 100
const VcsTypeGit = "Git"

// CollectFromGit reads the branch, origin URL, head commit and recent commits from the repository
// containing the workspace. Commits are walked back from HEAD until sinceCommit, which is excluded and
// may be abbreviated, or until maxCommits have been read.
func CollectFromGit(workspace string, sinceCommit string, maxCommits int) (*models.BuildInformation, error) {
	repo, err := git.PlainOpenWithOptions(workspace, &git.PlainOpenOptions{DetectDotGit: true})

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-buildinfo-gitopen - failed to open the git repository at %q: %w", workspace, err)
	}

	head, err := repo.Head()

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-buildinfo-githead - failed to read HEAD of %q: %w", workspace, err)
	}

	info := models.BuildInformation{
		VcsType:         VcsTypeGit,
		VcsCommitNumber: head.Hash().String(),
		Commits:         []models.Commit{},
	}

	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	remote, err := repo.Remote("origin")

	if err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return nil, fmt.Errorf("octobuildstep-buildinfo-gitremote - failed to read the origin remote: %w", err)
	}

	if remote != nil && len(remote.Config().URLs) != 0 {
		info.VcsRoot = remote.Config().URLs[0]
	}

	if maxCommits <= 0 {
		maxCommits = DefaultMaxCommits
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-buildinfo-gitlog - failed to get commit history: %w", err)
	}
	defer iter.Close()

	sinceCommit = strings.ToLower(strings.TrimSpace(sinceCommit))

	err = iter.ForEach(func(commit *object.Commit) error {
		if sinceCommit != "" && strings.HasPrefix(commit.Hash.String(), sinceCommit) {
			return storer.ErrStop
		}

		info.Commits = append(info.Commits, models.Commit{
			Id:      commit.Hash.String(),
			Comment: strings.TrimSpace(commit.Message),
		})

		if len(info.Commits) >= maxCommits {
			return storer.ErrStop
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-buildinfo-gitlog - failed to iterate commits: %w", err)
	}

	return &info, nil
}

// Merge fills the blank fields of the supplied build information from the collected fields. Values
// supplied by the build always win.
func Merge(supplied models.BuildInformation, collected *models.BuildInformation) models.BuildInformation {
	merged := supplied

	if collected != nil {
		merged.Branch = firstNonEmpty(supplied.Branch, collected.Branch)
		merged.VcsType = firstNonEmpty(supplied.VcsType, collected.VcsType)
		merged.VcsRoot = firstNonEmpty(supplied.VcsRoot, collected.VcsRoot)
		merged.VcsCommitNumber = firstNonEmpty(supplied.VcsCommitNumber, collected.VcsCommitNumber)

		if len(supplied.Commits) == 0 {
			merged.Commits = collected.Commits
		}
	}

	merged.BuildEnvironment = firstNonEmpty(merged.BuildEnvironment, DefaultBuildEnvironment)

	if merged.Commits == nil {
		merged.Commits = []models.Commit{}
	}

	return merged
}

func ToJson(info models.BuildInformation) (string, error) {
	content, err := json.MarshalIndent(info, "", "  ")

	if err != nil {
		return "", fmt.Errorf("failed to serialize the build information: %w", err)
	}

	return string(content), nil
}

// WriteFile saves the document, creating the parent directory if needed
func WriteFile(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("octobuildstep-buildinfo-writeerror - failed to create the directory for %q: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("octobuildstep-buildinfo-writeerror - failed to write %q: %w", path, err)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}
