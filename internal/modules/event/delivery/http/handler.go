package handler

import (
	"net/http"

	"anoa.com/eventtech/internal/modules/event/dto"
	eventService "anoa.com/eventtech/internal/modules/event/service"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"anoa.com/eventtech/pkg/validator"
	"github.com/gin-gonic/gin"
)

const invalidAction = "Invalid action specified"

type EventHandler struct {
	service eventService.EventService
}

func NewEventHandler(service eventService.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// HandleGet serves GET /event-settings.
func (h *EventHandler) HandleGet(c *gin.Context) {
	switch param.Action(c) {
	case "get_events":
		h.GetEvents(c)
	case "get_event":
		h.GetEvent(c)
	default:
		response.Error(c, http.StatusBadRequest, invalidAction)
	}
}

// HandlePost serves POST /event-settings.
func (h *EventHandler) HandlePost(c *gin.Context) {
	switch param.Action(c) {
	case "add_event":
		h.AddEvent(c)
	case "update_event":
		h.UpdateEvent(c)
	case "delete_event":
		h.DeleteEvent(c)
	default:
		response.Error(c, http.StatusBadRequest, invalidAction)
	}
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch events")
		return
	}

	response.Success(c, "", gin.H{"events": events})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := param.ID(c, "id", "Event")
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch event")
		return
	}

	response.Success(c, "", gin.H{"event": event})
}

func (h *EventHandler) AddEvent(c *gin.Context) {
	var input dto.EventInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	eventID, err := h.service.AddEvent(c.Request.Context(), adminID, input)
	if err != nil {
		response.ResponseError(c, err, "Failed to add event")
		return
	}

	response.Success(c, "Event added successfully", gin.H{"event_id": eventID})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := param.ID(c, "id", "Event")
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	var input dto.EventInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	if err := h.service.UpdateEvent(c.Request.Context(), adminID, id, input); err != nil {
		response.ResponseError(c, err, "Failed to update event")
		return
	}

	response.Success(c, "Event updated successfully", nil)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := param.ID(c, "id", "Event")
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), adminID, id); err != nil {
		response.ResponseError(c, err, "Failed to delete event. Event may have registrations.")
		return
	}

	response.Success(c, "Event deleted successfully", nil)
}

// ListPublic serves the event list shown on the registration form.
func (h *EventHandler) ListPublic(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch events")
		return
	}

	public := make([]gin.H, 0, len(events))
	for _, e := range events {
		public = append(public, gin.H{
			"id":          e.ID,
			"event_name":  e.EventName,
			"description": e.Description,
		})
	}
	response.Success(c, "", gin.H{"events": public})
}
