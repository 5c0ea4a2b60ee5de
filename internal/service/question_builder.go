package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionRequest 手动出题与 AI 出题共用的题目描述
type QuestionRequest struct {
	Type             model.QuestionType `json:"type" binding:"required"`
	Text             string             `json:"text" binding:"required"`
	MediaURLs        []string           `json:"mediaUrls"`
	Points           decimal.Decimal    `json:"points"`
	TimeLimitSeconds *int               `json:"timeLimitSeconds"`
	Difficulty       model.Difficulty   `json:"difficulty"`
	Explanation      string             `json:"explanation"`
	Options          []OptionRequest    `json:"options"`
	CorrectAnswer    json.RawMessage    `json:"correctAnswer"`
}

func invalidQuestion(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidQuestion, fmt.Sprintf(format, args...))
}

// buildQuestion 校验题目并生成标准答案，选择题的标准答案由选项的正确标记推导
func buildQuestion(examID uint, req QuestionRequest, order int, defaultPoints decimal.Decimal) (model.ExamQuestion, error) {
	q := model.ExamQuestion{
		ExamID:           examID,
		Type:             req.Type,
		Text:             strings.TrimSpace(req.Text),
		Points:           req.Points,
		OrderIndex:       order,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Difficulty:       req.Difficulty,
		Explanation:      strings.TrimSpace(req.Explanation),
	}
	if !q.Type.Valid() {
		return q, invalidQuestion("unknown type %q", req.Type)
	}
	if q.Text == "" {
		return q, invalidQuestion("text is required")
	}
	if !q.Points.IsPositive() {
		q.Points = defaultPoints
	}
	switch q.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	case "":
		q.Difficulty = model.DifficultyMedium
	default:
		return q, invalidQuestion("unknown difficulty %q", req.Difficulty)
	}
	if req.TimeLimitSeconds != nil && *req.TimeLimitSeconds <= 0 {
		q.TimeLimitSeconds = nil
	}
	if len(req.MediaURLs) > 0 {
		q.MediaURLs = datatypes.JSONSlice[string](req.MediaURLs)
	}

	switch q.Type {
	case model.QuestionTypeMCQ:
		return buildChoiceQuestion(q, req)
	case model.QuestionTypeTrueFalse:
		return buildTrueFalseQuestion(q, req)
	default:
		if len(req.CorrectAnswer) > 0 {
			if !json.Valid(req.CorrectAnswer) {
				return q, invalidQuestion("correct answer is not valid JSON")
			}
			q.CorrectAnswer = datatypes.JSON(req.CorrectAnswer)
		}
		return q, nil
	}
}

func buildChoiceQuestion(q model.ExamQuestion, req QuestionRequest) (model.ExamQuestion, error) {
	if len(req.Options) < 2 {
		return q, invalidQuestion("multiple choice needs at least two options")
	}

	correct := make(map[int]bool)
	for i, o := range req.Options {
		if o.IsCorrect {
			correct[i] = true
		}
	}
	if len(correct) == 0 && len(req.CorrectAnswer) > 0 {
		key, err := model.DecodeAnswerKey(model.QuestionTypeMCQ, req.CorrectAnswer)
		if err != nil {
			return q, invalidQuestion("correct answer: %v", err)
		}
		for _, idx := range key.(model.ChoiceKey).CorrectOptionIndexes {
			if idx < 0 || idx >= len(req.Options) {
				return q, invalidQuestion("correct option index %d out of range", idx)
			}
			correct[idx] = true
		}
	}
	if len(correct) == 0 {
		return q, invalidQuestion("multiple choice needs a correct option")
	}

	key := model.ChoiceKey{CorrectOptionIndexes: []int{}}
	for i, o := range req.Options {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			return q, invalidQuestion("option %d is empty", i+1)
		}
		q.Options = append(q.Options, model.ExamQuestionOption{
			Text:       text,
			OrderIndex: i + 1,
			IsCorrect:  correct[i],
		})
		if correct[i] {
			key.CorrectOptionIndexes = append(key.CorrectOptionIndexes, i)
		}
	}
	q.CorrectAnswer = datatypes.JSON(model.MustEncodeKey(key))
	return q, nil
}

// buildTrueFalseQuestion 判断题固定生成 True/False 两个选项
func buildTrueFalseQuestion(q model.ExamQuestion, req QuestionRequest) (model.ExamQuestion, error) {
	var answer bool
	switch {
	case len(req.CorrectAnswer) > 0:
		key, err := model.DecodeAnswerKey(model.QuestionTypeTrueFalse, req.CorrectAnswer)
		if err != nil {
			return q, invalidQuestion("correct answer: %v", err)
		}
		answer = key.(model.TrueFalseKey).Answer
	case len(req.Options) == 2 && req.Options[0].IsCorrect != req.Options[1].IsCorrect:
		answer = req.Options[0].IsCorrect
	default:
		return q, invalidQuestion(`true/false needs a correct answer like {"answer": true}`)
	}

	q.Options = []model.ExamQuestionOption{
		{Text: "True", OrderIndex: 1, IsCorrect: answer},
		{Text: "False", OrderIndex: 2, IsCorrect: !answer},
	}
	q.CorrectAnswer = datatypes.JSON(model.MustEncodeKey(model.TrueFalseKey{Answer: answer}))
	return q, nil
}
