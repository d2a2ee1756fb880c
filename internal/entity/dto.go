// AngelaMos | 2026
// dto.go

package entity

import (
	"github.com/carterperez-dev/homemgmt/internal/homeassistant"
)

type CreateEntityRequest struct {
	Name       string     `json:"name"        validate:"required,min=1,max=255"`
	EntityType string     `json:"entity_type" validate:"required,min=1,max=100"`
	RoomID     int64      `json:"room_id"     validate:"required,gt=0"`
	Attributes Attributes `json:"attributes"`
}

type AddEntityRequest struct {
	Name       string     `json:"name"        validate:"required,min=1,max=255"`
	EntityType string     `json:"entity_type" validate:"required,min=1,max=100"`
	Config     Attributes `json:"config"`
}

type UpdateEntityRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=255"`
	EntityType string `json:"entity_type" validate:"required,min=1,max=100"`
}

type EntityResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	EntityType string     `json:"entity_type"`
	RoomID     *int64     `json:"room_id"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type CreateEntityResponse struct {
	EntityID int64 `json:"entity_id"`
}

type AddEntityResponse struct {
	Message string         `json:"message"`
	Entity  EntityResponse `json:"entity"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type LiveEntitiesResponse struct {
	Entities []homeassistant.Entity `json:"entities"`
}

func ToEntityResponse(e *Entity) EntityResponse {
	return EntityResponse{
		ID:         e.ID,
		Name:       e.Name,
		EntityType: e.EntityType,
		RoomID:     e.RoomID,
		Attributes: e.Attributes,
	}
}

func ToEntityResponseList(entities []Entity) []EntityResponse {
	responses := make([]EntityResponse, 0, len(entities))
	for i := range entities {
		responses = append(responses, ToEntityResponse(&entities[i]))
	}
	return responses
}
