package Iservices

import "interview-assistant/internal/domain/entities"

type IQuestionService interface {
	Generate(profile entities.CandidateProfile) (*entities.QuestionSet, error)
}
