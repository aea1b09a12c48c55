package Iservices

import "interview-assistant/internal/domain/entities"

type IAnalyticsService interface {
	RecordTurn(snapshot *entities.AnalyticsSnapshot)
	Snapshot(state entities.SessionState) entities.AnalyticsSnapshot
}
