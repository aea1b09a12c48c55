package Iservices

import "interview-assistant/internal/domain/dto"

type ILLMService interface {
	Chat(messages []dto.ChatMessage) (string, error)
}
