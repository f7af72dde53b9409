package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

const DefaultServerId = "default"

var ErrUnknownServer = errors.New("there are no Octopus Deploy servers configured with this server ID")

// OctopusServer is a configured Octopus instance. ApiKey may reference environment variables, like
// ${OCTOPUS_PROD_API_KEY}, so keys need not be written to the servers file.
type OctopusServer struct {
	Id        string `yaml:"id"`
	Url       string `yaml:"url"`
	ApiKey    string `yaml:"apiKey"`
	SpaceId   string `yaml:"spaceId"`
	IsDefault bool   `yaml:"default"`
}

type serversFile struct {
	Servers []OctopusServer `yaml:"servers"`
}

// ServerRegistry holds the Octopus servers build steps can target
type ServerRegistry struct {
	servers   []OctopusServer
	defaultId string
}

// NewServerRegistry validates the servers. The first server flagged as the default is the default,
// otherwise the first server is.
func NewServerRegistry(servers []OctopusServer) (*ServerRegistry, error) {
	if len(servers) == 0 {
		return nil, errors.New("octobuildstep-init-configerror - at least one Octopus server must be configured")
	}

	for index, server := range servers {
		if strings.TrimSpace(server.Id) == "" {
			return nil, fmt.Errorf("octobuildstep-init-configerror - the Octopus server at index %d has no id", index)
		}

		if strings.TrimSpace(server.Url) == "" {
			return nil, fmt.Errorf("octobuildstep-init-configerror - the Octopus server %s has no url", server.Id)
		}

		if strings.TrimSpace(server.ApiKey) == "" {
			return nil, fmt.Errorf("octobuildstep-init-configerror - the Octopus server %s has no apiKey", server.Id)
		}
	}

	duplicates := lo.FindDuplicatesBy(servers, func(item OctopusServer) string {
		return item.Id
	})

	if len(duplicates) != 0 {
		return nil, fmt.Errorf("octobuildstep-init-configerror - the Octopus server id %s is used more than once", duplicates[0].Id)
	}

	defaultServer, found := lo.Find(servers, func(item OctopusServer) bool {
		return item.IsDefault
	})

	if !found {
		defaultServer = servers[0]
	}

	return &ServerRegistry{
		servers:   servers,
		defaultId: defaultServer.Id,
	}, nil
}

// LoadServerRegistry reads the servers from the environment. OCTOPUS_SERVER and OCTOPUS_API_KEY define
// a server with the id from OCTOPUS_SERVER_ID (or "default"), and OCTOPUS_SERVERS_FILE points to a
// YAML file listing more servers.
func LoadServerRegistry() (*ServerRegistry, error) {
	servers := []OctopusServer{}

	if os.Getenv("OCTOPUS_SERVER") != "" {
		if os.Getenv("OCTOPUS_API_KEY") == "" {
			return nil, errors.New("octobuildstep-init-configerror - OCTOPUS_API_KEY must be defined when OCTOPUS_SERVER is defined")
		}

		servers = append(servers, OctopusServer{
			Id:        lo.Ternary(os.Getenv("OCTOPUS_SERVER_ID") == "", DefaultServerId, os.Getenv("OCTOPUS_SERVER_ID")),
			Url:       os.Getenv("OCTOPUS_SERVER"),
			ApiKey:    os.Getenv("OCTOPUS_API_KEY"),
			SpaceId:   os.Getenv("OCTOPUS_SPACE_ID"),
			IsDefault: true,
		})
	}

	if os.Getenv("OCTOPUS_SERVERS_FILE") != "" {
		fileServers, err := ReadServersFile(os.Getenv("OCTOPUS_SERVERS_FILE"))

		if err != nil {
			return nil, err
		}

		servers = append(servers, fileServers...)
	}

	if len(servers) == 0 {
		return nil, errors.New("octobuildstep-init-configerror - OCTOPUS_SERVER or OCTOPUS_SERVERS_FILE must be defined")
	}

	return NewServerRegistry(servers)
}

func ReadServersFile(path string) ([]OctopusServer, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-init-configerror - failed to read the servers file %s: %w", path, err)
	}

	file := serversFile{}
	err = yaml.Unmarshal(data, &file)

	if err != nil {
		return nil, fmt.Errorf("octobuildstep-init-configerror - failed to parse the servers file %s: %w", path, err)
	}

	return lo.Map(file.Servers, func(item OctopusServer, index int) OctopusServer {
		item.ApiKey = os.ExpandEnv(item.ApiKey)
		return item
	}), nil
}

// GetServer returns the server with the id. An empty id, or "default", selects the default server.
func (r *ServerRegistry) GetServer(serverId string) (*OctopusServer, error) {
	serverId = strings.TrimSpace(serverId)

	if serverId == "" || serverId == DefaultServerId {
		serverId = r.defaultId
	}

	server, found := lo.Find(r.servers, func(item OctopusServer) bool {
		return item.Id == serverId
	})

	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServer, serverId)
	}

	return &server, nil
}

func (r *ServerRegistry) HasServer(serverId string) bool {
	_, err := r.GetServer(serverId)
	return err == nil
}

func (r *ServerRegistry) ServerIds() []string {
	return lo.Map(r.servers, func(item OctopusServer, index int) string {
		return item.Id
	})
}
