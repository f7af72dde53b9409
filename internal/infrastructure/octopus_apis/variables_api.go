package octopus_apis

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/samber/lo"
)

type VariablesApi struct {
	webClient *AuthenticatedWebClient
}

func NewVariablesApi(webClient *AuthenticatedWebClient) *VariablesApi {
	return &VariablesApi{webClient: webClient}
}

type previewControl struct {
	Type        string
	Name        string
	Label       string
	Description string
	Required    bool
}

type previewElement struct {
	Name    string
	Control previewControl
}

type deploymentPreview struct {
	Form struct {
		Values   map[string]string
		Elements []previewElement
	}
}

// GetPromptedVariables returns the variables that must be supplied when deploying the release to
// the environment
func (v *VariablesApi) GetPromptedVariables(ctx context.Context, releaseId string, environmentId string) ([]models.PromptedVariable, error) {
	preview := deploymentPreview{}
	path := v.webClient.SpacePath("releases/" + url.PathEscape(releaseId) + "/deployments/preview/" + url.PathEscape(environmentId))
	err := v.webClient.GetJson(ctx, path, nil, &preview)

	if err != nil {
		return nil, err
	}

	return lo.Map(preview.Form.Elements, func(element previewElement, index int) models.PromptedVariable {
		return models.PromptedVariable{
			ElementID:   element.Name,
			Name:        element.Control.Name,
			Label:       element.Control.Label,
			Description: element.Control.Description,
			Required:    element.Control.Required,
			Type:        element.Control.Type,
		}
	}), nil
}

// BuildFormValues maps variable values, keyed by variable name, onto the form element IDs a
// deployment expects. Names are matched exactly first, then ignoring case. Entries that do not match
// a prompted variable are ignored.
func BuildFormValues(prompted []models.PromptedVariable, entries map[string]string) (map[string]string, error) {
	formValues := map[string]string{}
	missing := []string{}
	names := lo.Keys(entries)
	sort.Strings(names)

	for _, variable := range prompted {
		value, found := entries[variable.Name]

		if !found {
			key, keyFound := lo.Find(names, func(item string) bool {
				return strings.EqualFold(item, variable.Name)
			})

			if keyFound {
				value = entries[key]
				found = true
			}
		}

		if found {
			formValues[variable.ElementID] = value
		} else if variable.Required {
			missing = append(missing, variable.Name)
		}
	}

	if len(missing) != 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("octobuildstep-variables-missing - the following required prompted variables were not supplied: %s", strings.Join(missing, ", "))
	}

	return formValues, nil
}
