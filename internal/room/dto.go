// AngelaMos | 2026
// dto.go

package room

import (
	"strconv"
)

type CreateRoomRequest struct {
	Name      string  `json:"room_name" validate:"required,min=1,max=255"`
	EntityIDs []int64 `json:"entities"  validate:"omitempty,dive,gt=0"`
}

type UpdateRoomRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	EntityIDs []int64 `json:"entities"       validate:"required,dive,gt=0"`
}

type EntitySummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
}

type RoomResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	OwnerID  *int64          `json:"owner_id"`
	Entities []EntitySummary `json:"entities"`
}

type EntityDetail struct {
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	EntityType string `json:"entity_type"`
}

type RoomDetailsResponse struct {
	RoomID   int64          `json:"room_id"`
	RoomName string         `json:"room_name"`
	Entities []EntityDetail `json:"entities"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func ToRoomResponse(d *Detail) RoomResponse {
	resp := RoomResponse{
		ID:       d.Room.ID,
		Name:     d.Room.Name,
		OwnerID:  d.Room.OwnerID,
		Entities: make([]EntitySummary, 0, len(d.Entities)),
	}
	for _, e := range d.Entities {
		resp.Entities = append(resp.Entities, EntitySummary{
			ID:         e.ID,
			Name:       e.Name,
			EntityType: e.EntityType,
		})
	}
	return resp
}

func ToRoomResponseList(details []Detail) []RoomResponse {
	responses := make([]RoomResponse, 0, len(details))
	for i := range details {
		responses = append(responses, ToRoomResponse(&details[i]))
	}
	return responses
}

func ToRoomDetailsResponse(d *Detail) RoomDetailsResponse {
	resp := RoomDetailsResponse{
		RoomID:   d.Room.ID,
		RoomName: d.Room.Name,
		Entities: make([]EntityDetail, 0, len(d.Entities)),
	}
	for _, e := range d.Entities {
		resp.Entities = append(resp.Entities, EntityDetail{
			EntityID:   strconv.FormatInt(e.ID, 10),
			EntityName: e.Name,
			EntityType: e.EntityType,
		})
	}
	return resp
}
