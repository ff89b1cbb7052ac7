// internal/api/structure_handler.go
package api

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StructureHandler holds the structure service dependency.
type StructureHandler struct {
	structureService service.StructureService
}

// NewStructureHandler creates a new StructureHandler.
func NewStructureHandler(structureService service.StructureService) *StructureHandler {
	return &StructureHandler{structureService: structureService}
}

// --- DTOs ---

// ReorderDaysRequest carries the full requested day order for a plan.
type ReorderDaysRequest struct {
	OrderedDayIDs []string `json:"orderedDayIds" binding:"required"`
}

// ReorderExercisesRequest carries the full requested exercise order for a day.
type ReorderExercisesRequest struct {
	OrderedExerciseIDs []string `json:"orderedExerciseIds" binding:"required"`
}

// MoveExerciseRequest describes a cross-day (or within-day) move.
// ToIndex is clamped server-side; out-of-range means prepend/append.
type MoveExerciseRequest struct {
	FromDayID string `json:"fromDayId" binding:"required"`
	ToDayID   string `json:"toDayId" binding:"required"`
	ToIndex   int    `json:"toIndex"`
}

// ApplyReportResponse is the DTO for the mutation result contract.
type ApplyReportResponse struct {
	ReportID   string   `json:"reportId"`
	Status     string   `json:"status"`
	Code       string   `json:"code,omitempty"`
	AppliedIDs []string `json:"appliedIds,omitempty"`
	FailedIDs  []string `json:"failedIds,omitempty"`
}

// ExerciseStructureResponse is one positioned exercise in a structure view.
type ExerciseStructureResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// DayStructureResponse is one positioned day with its ordered exercises.
type DayStructureResponse struct {
	ID        string                      `json:"id"`
	Title     string                      `json:"title"`
	Position  int                         `json:"position"`
	Exercises []ExerciseStructureResponse `json:"exercises"`
}

// PlanStructureResponse is the hydrated ordered tree of a plan.
type PlanStructureResponse struct {
	PlanID string                 `json:"planId"`
	Days   []DayStructureResponse `json:"days"`
}

// MapReportToResponse converts domain.ApplyReport to its DTO.
func MapReportToResponse(r *domain.ApplyReport) ApplyReportResponse {
	if r == nil {
		return ApplyReportResponse{}
	}
	return ApplyReportResponse{
		ReportID:   r.ReportID,
		Status:     string(r.Status),
		Code:       string(r.Code),
		AppliedIDs: hexIDs(r.AppliedIDs),
		FailedIDs:  hexIDs(r.FailedIDs),
	}
}

// MapPlanTreeToResponse converts a hydrated service.PlanTree to its DTO.
func MapPlanTreeToResponse(tree *service.PlanTree) PlanStructureResponse {
	resp := PlanStructureResponse{
		PlanID: tree.PlanID.Hex(),
		Days:   make([]DayStructureResponse, len(tree.Days)),
	}
	for i, day := range tree.Days {
		exercises := tree.Exercises[day.ID]
		dayResp := DayStructureResponse{
			ID:        day.ID.Hex(),
			Title:     day.Title,
			Position:  day.Position,
			Exercises: make([]ExerciseStructureResponse, len(exercises)),
		}
		for j, e := range exercises {
			dayResp.Exercises[j] = ExerciseStructureResponse{
				ID:       e.ID.Hex(),
				Name:     e.Name,
				Position: e.Position,
			}
		}
		resp.Days[i] = dayResp
	}
	return resp
}

func hexIDs(ids []primitive.ObjectID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// --- Handler Methods ---

// ReorderDays godoc
// @Summary Reorder the days of a training plan
// @Description Applies a full permutation of the plan's day order. The id list must contain exactly the plan's current day ids.
// @Tags Structure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param order body ReorderDaysRequest true "Requested day order"
// @Success 200 {object} ApplyReportResponse "Applied (or partially applied) report"
// @Failure 400 {object} ApplyReportResponse "Invalid permutation"
// @Failure 403 {object} ApplyReportResponse "Not the owning trainer"
// @Failure 404 {object} ApplyReportResponse "Plan not found"
// @Failure 409 {object} ApplyReportResponse "Concurrent mutation detected"
// @Router /plans/{planId}/days/order [put]
func (h *StructureHandler) ReorderDays(c *gin.Context) {
	var req ReorderDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify actor from token.")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	orderedDayIDs, err := parseHexIDs(req.OrderedDayIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format in order list.")
		return
	}

	report, err := h.structureService.ReorderDays(c.Request.Context(), actor, planID, orderedDayIDs)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to reorder days.")
		return
	}
	respondWithReport(c, report)
}

// ReorderExercises godoc
// @Summary Reorder the exercises within one day
// @Description Applies a full permutation of a day's exercise order. The id list must contain exactly the day's current exercise ids.
// @Tags Structure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param order body ReorderExercisesRequest true "Requested exercise order"
// @Success 200 {object} ApplyReportResponse "Applied (or partially applied) report"
// @Failure 400 {object} ApplyReportResponse "Invalid permutation"
// @Failure 403 {object} ApplyReportResponse "Not the owning trainer"
// @Failure 404 {object} ApplyReportResponse "Plan or day not found"
// @Failure 409 {object} ApplyReportResponse "Concurrent mutation detected"
// @Router /plans/{planId}/days/{dayId}/exercises/order [put]
func (h *StructureHandler) ReorderExercises(c *gin.Context) {
	var req ReorderExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify actor from token.")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	dayID, err := primitive.ObjectIDFromHex(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format.")
		return
	}
	orderedExerciseIDs, err := parseHexIDs(req.OrderedExerciseIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in order list.")
		return
	}

	report, err := h.structureService.ReorderExercises(c.Request.Context(), actor, planID, dayID, orderedExerciseIDs)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to reorder exercises.")
		return
	}
	respondWithReport(c, report)
}

// MoveExercise godoc
// @Summary Move an exercise to another day of the same plan
// @Description Removes the exercise from its source day, re-packs both days densely, and inserts it at the requested index of the destination day. Source and destination must belong to the same plan.
// @Tags Structure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param exerciseId path string true "Exercise ID"
// @Param move body MoveExerciseRequest true "Move request"
// @Success 200 {object} ApplyReportResponse "Applied (or partially applied) report"
// @Failure 400 {object} ApplyReportResponse "Cross-plan move denied"
// @Failure 403 {object} ApplyReportResponse "Not the owning trainer"
// @Failure 404 {object} ApplyReportResponse "Plan, day, or exercise not found"
// @Failure 409 {object} ApplyReportResponse "Concurrent mutation detected"
// @Router /plans/{planId}/exercises/{exerciseId}/move [post]
func (h *StructureHandler) MoveExercise(c *gin.Context) {
	var req MoveExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify actor from token.")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	fromDayID, err := primitive.ObjectIDFromHex(req.FromDayID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid source day ID format.")
		return
	}
	toDayID, err := primitive.ObjectIDFromHex(req.ToDayID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid destination day ID format.")
		return
	}

	report, err := h.structureService.MoveExercise(c.Request.Context(), actor, planID, exerciseID, fromDayID, toDayID, req.ToIndex)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to move exercise.")
		return
	}
	respondWithReport(c, report)
}

// GetPlanStructure godoc
// @Summary Get the ordered structure of a plan
// @Description Returns the plan's days and each day's exercises in position order. Clients use this to re-sync after a conflict or partial write.
// @Tags Structure
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} PlanStructureResponse "Ordered structure"
// @Failure 403 {object} gin.H "Not the owning trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/structure [get]
func (h *StructureHandler) GetPlanStructure(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify actor from token.")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	tree, err := h.structureService.GetPlanStructure(c.Request.Context(), actor, planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanAccessDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load plan structure.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanTreeToResponse(tree))
}

// --- Helpers ---

// respondWithReport maps the report contract onto HTTP status codes.
// Applied and partially applied reports are both 200: the body says which
// rows landed, and swallowing a partial outcome into an error would hide the
// one signal the caller needs for recovery.
func respondWithReport(c *gin.Context, report *domain.ApplyReport) {
	status := http.StatusOK
	if report.Rejected() {
		switch report.Code {
		case domain.CodeForbidden:
			status = http.StatusForbidden
		case domain.CodePlanNotFound, domain.CodeNotFound:
			status = http.StatusNotFound
		case domain.CodeInvalidPermutation, domain.CodeCrossPlanMoveDenied:
			status = http.StatusBadRequest
		case domain.CodeConflict:
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
	}
	c.JSON(status, MapReportToResponse(report))
}

func parseHexIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(raw))
	for i, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
