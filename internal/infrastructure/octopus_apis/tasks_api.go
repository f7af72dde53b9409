package octopus_apis

import (
	"context"
	"net/url"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

const DefaultTaskPollInterval = 5 * time.Second

type TasksApi struct {
	webClient *AuthenticatedWebClient
}

func NewTasksApi(webClient *AuthenticatedWebClient) *TasksApi {
	return &TasksApi{webClient: webClient}
}

func (t *TasksApi) GetTask(ctx context.Context, taskId string) (*models.Task, error) {
	task := models.Task{}
	err := t.webClient.GetJson(ctx, t.webClient.SpacePath("tasks/"+url.PathEscape(taskId)), nil, &task)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// WaitForTask polls the task until it completes, or the context is done
func (t *TasksApi) WaitForTask(ctx context.Context, taskId string, pollInterval time.Duration) (*models.Task, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultTaskPollInterval
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		task, err := t.GetTask(ctx, taskId)

		if err != nil {
			return nil, err
		}

		if task.IsCompleted {
			return task, nil
		}

		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-ticker.C:
		}
	}
}
