package server

import (
	"waypoint/internal/models"
	"waypoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStop handles POST /api/groups/:id/stops
// @Summary Create stop
// @Description Add a stop to the group's itinerary
// @Tags stops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Stop
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/stops [post]
func (s *Server) CreateStop(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		StartTime   string  `json:"start_time"`
		EndTime     string  `json:"end_time"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	stop, err := s.stopService.CreateStop(c.Context(), service.StopInput{
		UserID:      currentUserID(c),
		GroupID:     groupID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Lat:         req.Lat,
		Lng:         req.Lng,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(stop)
}

// GetStops handles GET /api/groups/:id/stops
// @Summary List stops
// @Description List the group's itinerary stops ordered by start time
// @Tags stops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{stops=[]models.Stop}
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/stops [get]
func (s *Server) GetStops(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stops, err := s.stopService.ListStops(c.Context(), groupID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"stops": stops})
}

// UpdateStop handles PUT /api/groups/:id/stops/:stopId
// @Summary Update stop
// @Description Update a stop's details
// @Tags stops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Stop
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id}/stops/{stopId} [put]
func (s *Server) UpdateStop(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stopID, err := s.parseID(c, "stopId")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		StartTime   string  `json:"start_time"`
		EndTime     string  `json:"end_time"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	stop, err := s.stopService.UpdateStop(c.Context(), stopID, service.StopInput{
		UserID:      currentUserID(c),
		GroupID:     groupID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Lat:         req.Lat,
		Lng:         req.Lng,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stop)
}

// DeleteStop handles DELETE /api/groups/:id/stops/:stopId
// @Summary Delete stop
// @Description Remove a stop from the itinerary
// @Tags stops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id}/stops/{stopId} [delete]
func (s *Server) DeleteStop(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stopID, err := s.parseID(c, "stopId")
	if err != nil {
		return nil
	}

	if err := s.stopService.DeleteStop(c.Context(), groupID, stopID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stop deleted"})
}
