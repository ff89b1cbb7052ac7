package api

import (
	"alcyxob/plan-engine/internal/domain" // Needed for RoleMiddleware
	"alcyxob/plan-engine/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	structureService service.StructureService,
) {
	structureHandler := NewStructureHandler(structureService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// Structural mutations are trainer/admin territory; the service's
		// ownership gate decides per plan. Clients get plan views from the
		// enclosing application, not from this engine.
		planGroup := protected.Group("/plans")
		planGroup.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			// GET /api/v1/plans/{planId}/structure
			planGroup.GET("/:planId/structure", structureHandler.GetPlanStructure)

			// PUT /api/v1/plans/{planId}/days/order
			planGroup.PUT("/:planId/days/order", structureHandler.ReorderDays)

			// PUT /api/v1/plans/{planId}/days/{dayId}/exercises/order
			planGroup.PUT("/:planId/days/:dayId/exercises/order", structureHandler.ReorderExercises)

			// POST /api/v1/plans/{planId}/exercises/{exerciseId}/move
			planGroup.POST("/:planId/exercises/:exerciseId/move", structureHandler.MoveExercise)
		}
	}
}
