package dto

import (
	"admissions-scheduler/modules/notification/entity"

	"github.com/google/uuid"
)

type MarkAsReadRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required"`
}

type NotificationListResponse struct {
	Notifications []entity.Notification `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
