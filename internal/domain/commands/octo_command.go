package commands

import (
	"fmt"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/google/shlex"
	"github.com/kballard/go-shellquote"
)

const MaskedValue = "********"

// Connection is the server a command talks to
type Connection struct {
	ServerUrl string
	ApiKey    string
	SpaceId   string
}

// OctoCommand accumulates the arguments of one Octo CLI command. The API key is tracked so it can be
// masked when the command is displayed.
type OctoCommand struct {
	tool        string
	arguments   []string
	secretIndex []int
}

func NewOctoCommand(tool string, command string) *OctoCommand {
	return &OctoCommand{
		tool:      tool,
		arguments: []string{command},
	}
}

// Add appends an option and its value
func (c *OctoCommand) Add(option string, value string) *OctoCommand {
	c.arguments = append(c.arguments, option, value)
	return c
}

// AddIfSet appends the option only if the value is not blank
func (c *OctoCommand) AddIfSet(option string, value string) *OctoCommand {
	if strings.TrimSpace(value) == "" {
		return c
	}

	return c.Add(option, strings.TrimSpace(value))
}

// AddEach appends the option once per value
func (c *OctoCommand) AddEach(option string, values []string) *OctoCommand {
	for _, value := range values {
		c.Add(option, value)
	}

	return c
}

func (c *OctoCommand) AddFlag(option string) *OctoCommand {
	c.arguments = append(c.arguments, option)
	return c
}

func (c *OctoCommand) addSecret(option string, value string) *OctoCommand {
	c.arguments = append(c.arguments, option, value)
	c.secretIndex = append(c.secretIndex, len(c.arguments)-1)
	return c
}

// AddConnection appends the server, API key and space options shared by every command
func (c *OctoCommand) AddConnection(connection Connection, verbose bool) *OctoCommand {
	c.Add("--server", connection.ServerUrl)
	c.addSecret("--apiKey", connection.ApiKey)
	c.AddIfSet("--space", connection.SpaceId)

	if verbose {
		c.AddFlag("--debug")
	}

	return c
}

// AddAdditionalArgs splits the text the way a shell would and appends the result
func (c *OctoCommand) AddAdditionalArgs(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	args, err := shlex.Split(text)

	if err != nil {
		return fmt.Errorf("octobuildstep-commands-argserror - failed to parse the additional arguments %q: %w", text, err)
	}

	c.arguments = append(c.arguments, args...)
	return nil
}

func (c *OctoCommand) Tool() string {
	return c.tool
}

// Arguments returns the arguments with the API key in clear text, for launching the tool
func (c *OctoCommand) Arguments() []string {
	return append([]string{}, c.arguments...)
}

// Masked returns the arguments with the API key replaced, for display
func (c *OctoCommand) Masked() []string {
	masked := c.Arguments()

	for _, index := range c.secretIndex {
		masked[index] = MaskedValue
	}

	return masked
}

// CommandLine renders the masked command as it would be typed into a shell
func (c *OctoCommand) CommandLine() string {
	return shellquote.Join(append([]string{c.tool}, c.Masked()...)...)
}

func (c *OctoCommand) Plan(warnings []string, files map[string]string) models.CommandPlan {
	return models.CommandPlan{
		Tool:        c.tool,
		Arguments:   c.Masked(),
		CommandLine: c.CommandLine(),
		Warnings:    warnings,
		Files:       files,
	}
}
