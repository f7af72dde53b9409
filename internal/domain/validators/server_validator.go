package validators

import (
	"strings"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

// ServerLookup reports whether an Octopus server has been configured with an id
type ServerLookup interface {
	HasServer(serverId string) bool
}

func ValidateServerId(servers ServerLookup, serverId string) models.ValidationResult {
	if strings.TrimSpace(serverId) == "" {
		return models.Error("Please select an instance of Octopus Deploy.")
	}

	if !servers.HasServer(serverId) {
		return models.Error("There are no Octopus Deploy servers configured with this Server Id.")
	}

	return models.Ok()
}
