package octopus_apis

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomName(random *rand.Rand) string {
	letters := []rune("abcABC xyzXYZ")
	name := make([]rune, 1+random.Intn(4))
	for i := range name {
		name[i] = letters[random.Intn(len(letters))]
	}
	return string(name)
}

func projectName(project models.Project) string {
	return project.Name
}

// expectedMatch scans the projects the long way: the first exact match, then the first match ignoring case
func expectedMatch(projects []models.Project, name string, ignoreCase bool) (string, bool) {
	for _, project := range projects {
		if project.Name == name {
			return project.ID, true
		}
	}

	if ignoreCase {
		for _, project := range projects {
			if strings.EqualFold(project.Name, name) {
				return project.ID, true
			}
		}
	}

	return "", false
}

func TestFindByNameMatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		projects := make([]models.Project, random.Intn(6))
		for j := range projects {
			projects[j] = models.Project{ID: "Projects-" + string(rune('A'+j)), Name: randomName(random)}
		}

		name := randomName(random)
		if len(projects) > 0 && random.Intn(2) == 0 {
			name = strings.ToUpper(projects[random.Intn(len(projects))].Name)
		}
		ignoreCase := random.Intn(2) == 0

		found := findByName(projects, name, ignoreCase, projectName)
		expectedId, expected := expectedMatch(projects, name, ignoreCase)

		if !expected {
			assert.Nil(t, found, "%q in %v (ignoreCase %v)", name, projects, ignoreCase)
			continue
		}

		require.NotNil(t, found, "%q in %v (ignoreCase %v)", name, projects, ignoreCase)
		assert.Equal(t, expectedId, found.ID)

		if !ignoreCase {
			assert.Equal(t, name, found.Name)
		}
	}
}

func TestFindByNamePrefersExactMatchOverEarlierCaseMatch(t *testing.T) {
	projects := []models.Project{
		{ID: "Projects-1", Name: "WEB"},
		{ID: "Projects-2", Name: "Web"},
	}

	found := findByName(projects, "Web", true, projectName)
	require.NotNil(t, found)
	assert.Equal(t, "Projects-2", found.ID)

	found = findByName(projects, "web", false, projectName)
	assert.Nil(t, found)

	found = findByName(projects, "web", true, projectName)
	require.NotNil(t, found)
	assert.Equal(t, "Projects-1", found.ID)

	assert.Nil(t, findByName([]models.Project{}, "Web", true, projectName))
}
