package model

import "time"

// CycleOutcome indicates how a classification cycle ended.
type CycleOutcome string

// Cycle outcome constants.
const (
	OutcomeClassified     CycleOutcome = "CLASSIFIED"
	OutcomeUploadFailed   CycleOutcome = "UPLOAD_FAILED"
	OutcomeClassifyFailed CycleOutcome = "CLASSIFY_FAILED"
	OutcomeTimedOut       CycleOutcome = "TIMED_OUT"
)

// ClassificationRecord is the persisted trace of one classification cycle.
type ClassificationRecord struct {
	ClassifiedAt      time.Time
	ImagePath         string
	TopClass          string
	Outcome           CycleOutcome
	DisplayConfidence float64
	Duration          time.Duration
	ID                int64
}

// CollectionRecord is the persisted trace of one labeled photo upload.
type CollectionRecord struct {
	CollectedAt   time.Time
	Site          string
	UserID        string
	ObjectKey     string
	PointsAwarded int64
	ID            int64
}
