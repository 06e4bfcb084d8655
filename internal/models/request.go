package models

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required" example:"acceptee"`
}

type MessageRequest struct {
	SenderEmail string `json:"sender_email"`
	Message     string `json:"message" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAdminRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

type PushTestRequest struct {
	Token string            `json:"token" binding:"required"`
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data,omitempty"`
}
