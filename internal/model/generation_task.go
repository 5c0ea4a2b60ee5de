package model

import (
	"time"

	"gorm.io/datatypes"
)

type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "PENDING"
	GenerationProcessing GenerationStatus = "PROCESSING"
	GenerationCompleted  GenerationStatus = "COMPLETED"
	GenerationFailed     GenerationStatus = "FAILED"
)

func (s GenerationStatus) IsFinished() bool {
	return s == GenerationCompleted || s == GenerationFailed
}

// GenerationTask AI 出题任务，异步执行时通过它轮询进度
type GenerationTask struct {
	UUIDBase
	ExamID             uint             `gorm:"index;not null" json:"examId"`
	RequestedBy        uint             `gorm:"index;not null" json:"requestedBy"`
	Status             GenerationStatus `gorm:"size:20;index;not null" json:"status"`
	Request            datatypes.JSON   `gorm:"type:json" json:"request"`
	QuestionsGenerated int              `json:"questionsGenerated"`
	ErrorMessage       string           `gorm:"type:text" json:"errorMessage,omitempty"`
	StartedAt          *time.Time       `json:"startedAt,omitempty"`
	FinishedAt         *time.Time       `json:"finishedAt,omitempty"`
}

func (GenerationTask) TableName() string {
	return "generation_tasks"
}
