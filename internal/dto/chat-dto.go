package dto

type ChatRequestDTO struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponseDTO struct {
	Response string `json:"response"`
}
