package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/handlers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/gin-gonic/gin"
)

// StepPlanner is implemented by handlers.StepHandler
type StepPlanner interface {
	ValidateField(ctx context.Context, field string, request models.FieldValidationRequest) (models.ValidationResult, error)
	PlanCreateRelease(ctx context.Context, step models.CreateReleaseStep) (*models.CommandPlan, error)
	PlanDeployRelease(ctx context.Context, step models.DeployReleaseStep) (*models.CommandPlan, error)
	PlanPush(ctx context.Context, step models.PushPackageStep) (*models.CommandPlan, error)
	PlanBuildInformation(ctx context.Context, step models.PushBuildInformationStep) (*models.CommandPlan, error)
}

// Deployer is implemented by handlers.DeploymentHandler
type Deployer interface {
	CreateRelease(ctx context.Context, request models.CreateReleaseRequest) (*models.Release, error)
	DeployRelease(ctx context.Context, request models.DeployReleaseRequest) (*models.DeploymentResult, error)
}

func NewRouter(logger apploggers.AppLogger, steps StepPlanner, deployer Deployer) *gin.Engine {
	gin.DisableConsoleColor()

	if apploggers.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	r.POST("/api/validate/:field", func(c *gin.Context) {
		request := models.FieldValidationRequest{}
		if !bind(c, &request) {
			return
		}

		result, err := steps.ValidateField(c.Request.Context(), c.Param("field"), request)

		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	})

	r.POST("/api/steps/createrelease", func(c *gin.Context) {
		step := models.CreateReleaseStep{}
		if !bind(c, &step) {
			return
		}

		respond(c, logger)(steps.PlanCreateRelease(c.Request.Context(), step))
	})

	r.POST("/api/steps/deployrelease", func(c *gin.Context) {
		step := models.DeployReleaseStep{}
		if !bind(c, &step) {
			return
		}

		respond(c, logger)(steps.PlanDeployRelease(c.Request.Context(), step))
	})

	r.POST("/api/steps/push", func(c *gin.Context) {
		step := models.PushPackageStep{}
		if !bind(c, &step) {
			return
		}

		respond(c, logger)(steps.PlanPush(c.Request.Context(), step))
	})

	r.POST("/api/steps/buildinformation", func(c *gin.Context) {
		step := models.PushBuildInformationStep{}
		if !bind(c, &step) {
			return
		}

		respond(c, logger)(steps.PlanBuildInformation(c.Request.Context(), step))
	})

	r.POST("/api/releases", func(c *gin.Context) {
		request := models.CreateReleaseRequest{}
		if !bind(c, &request) {
			return
		}

		release, err := deployer.CreateRelease(c.Request.Context(), request)

		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, release)
	})

	r.POST("/api/deployments", func(c *gin.Context) {
		request := models.DeployReleaseRequest{}
		if !bind(c, &request) {
			return
		}

		result, err := deployer.DeployRelease(c.Request.Context(), request)

		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	})

	return r
}

func bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "Error",
			Message: "The request body is not valid JSON: " + err.Error(),
		})
		return false
	}

	return true
}

func respond(c *gin.Context, logger apploggers.AppLogger) func(plan *models.CommandPlan, err error) {
	return func(plan *models.CommandPlan, err error) {
		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, plan)
	}
}

func respondWithError(c *gin.Context, logger apploggers.AppLogger, err error) {
	var validationErr *handlers.ValidationFailedError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Status:  "Error",
			Message: err.Error(),
			Errors:  fieldMessages(validationErr.Fields),
		})
		return
	}

	if errors.Is(err, handlers.ErrUnknownField) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "Error",
			Message: err.Error(),
		})
		return
	}

	logger.GetLogger().Error("octobuildstep-request-failed: " + err.Error())

	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Status:  "Error",
		Message: err.Error(),
	})
}

func fieldMessages(fields []models.FieldValidation) []string {
	messages := []string{}

	for _, field := range fields {
		if field.IsError() {
			messages = append(messages, field.Field+": "+field.Message)
		}
	}

	return messages
}
