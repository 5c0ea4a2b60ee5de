package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
)

// DifficultyMix 难度分布百分比，三项之和为 100
type DifficultyMix struct {
	Easy   int `json:"easy" binding:"min=0,max=100"`
	Medium int `json:"medium" binding:"min=0,max=100"`
	Hard   int `json:"hard" binding:"min=0,max=100"`
}

type GenerateQuestionsRequest struct {
	NotebookFileIDs   []uint               `json:"notebookFileIds" binding:"required,min=1"`
	QuestionCount     int                  `json:"questionCount" binding:"required,min=1,max=100"`
	QuestionTypes     []model.QuestionType `json:"questionTypes"`
	Difficulty        *DifficultyMix       `json:"difficulty"`
	PointsPerQuestion decimal.Decimal      `json:"pointsPerQuestion"`
	Language          string               `json:"language"`
}

var generatableTypes = map[model.QuestionType]bool{
	model.QuestionTypeMCQ:       true,
	model.QuestionTypeTrueFalse: true,
	model.QuestionTypeEssay:     true,
	model.QuestionTypeFillBlank: true,
}

// Normalize 校验并补全默认值
func (r *GenerateQuestionsRequest) Normalize() error {
	if len(r.NotebookFileIDs) == 0 {
		return fmt.Errorf("%w: notebookFileIds is required", util.ErrInvalidGeneration)
	}
	if r.QuestionCount < 1 || r.QuestionCount > 100 {
		return fmt.Errorf("%w: questionCount must be between 1 and 100", util.ErrInvalidGeneration)
	}

	if len(r.QuestionTypes) == 0 {
		r.QuestionTypes = []model.QuestionType{model.QuestionTypeMCQ}
	}
	seen := make(map[model.QuestionType]bool)
	types := r.QuestionTypes[:0]
	for _, t := range r.QuestionTypes {
		t = normalizeQuestionType(string(t))
		if !generatableTypes[t] {
			return fmt.Errorf("%w: question type %q cannot be generated", util.ErrInvalidGeneration, t)
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	r.QuestionTypes = types

	if r.Difficulty == nil {
		r.Difficulty = &DifficultyMix{Easy: 30, Medium: 50, Hard: 20}
	}
	d := r.Difficulty
	if d.Easy < 0 || d.Medium < 0 || d.Hard < 0 || d.Easy+d.Medium+d.Hard != 100 {
		return fmt.Errorf("%w: difficulty percentages must sum to 100", util.ErrInvalidGeneration)
	}

	if r.PointsPerQuestion.IsNegative() {
		return fmt.Errorf("%w: pointsPerQuestion must not be negative", util.ErrInvalidGeneration)
	}
	if r.PointsPerQuestion.IsZero() {
		r.PointsPerQuestion = decimal.NewFromInt(1)
	}
	if strings.TrimSpace(r.Language) == "" {
		r.Language = "English"
	}
	return nil
}

func normalizeQuestionType(s string) model.QuestionType {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "MULTIPLE_CHOICE", "CHOICE", "SINGLE_CHOICE":
		return model.QuestionTypeMCQ
	case "TRUEFALSE", "TRUE_OR_FALSE", "TF", "BOOLEAN":
		return model.QuestionTypeTrueFalse
	case "FILL_IN_THE_BLANK", "FILL_IN_BLANK", "FILLBLANK":
		return model.QuestionTypeFillBlank
	}
	return model.QuestionType(s)
}

// difficultyCounts 按百分比分配题数，余数归入中等难度
func difficultyCounts(count int, mix DifficultyMix) (easy, medium, hard int) {
	easy = int(math.Round(float64(count*mix.Easy) / 100))
	hard = int(math.Round(float64(count*mix.Hard) / 100))
	if easy+hard > count {
		hard = count - easy
	}
	medium = count - easy - hard
	return easy, medium, hard
}

const generationSystemPrompt = "You are an experienced teacher who writes exam questions strictly from the provided material. " +
	"You always answer with a single JSON array and nothing else."

func buildGenerationPrompt(req *GenerateQuestionsRequest, summary string) string {
	easy, medium, hard := difficultyCounts(req.QuestionCount, *req.Difficulty)
	types := make([]string, len(req.QuestionTypes))
	for i, t := range req.QuestionTypes {
		types[i] = string(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write exactly %d exam questions in %s based on the course material below.\n", req.QuestionCount, req.Language)
	fmt.Fprintf(&b, "Allowed question types: %s.\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "Difficulty distribution: %d EASY, %d MEDIUM, %d HARD.\n\n", easy, medium, hard)
	b.WriteString("Return a JSON array. Each element is an object with these fields:\n")
	b.WriteString(`- "type": one of the allowed types` + "\n")
	b.WriteString(`- "question": the question text` + "\n")
	b.WriteString(`- "difficulty": EASY, MEDIUM or HARD` + "\n")
	b.WriteString(`- "explanation": why the answer is correct` + "\n")
	b.WriteString(`- MCQ: "options" (array of 4 strings) and "correctOptionIndexes" (zero-based indexes of the correct options)` + "\n")
	b.WriteString(`- TRUE_FALSE: "answer" (true or false)` + "\n")
	b.WriteString(`- ESSAY: "sampleAnswer" (a model answer)` + "\n")
	b.WriteString(`- FILL_BLANK: use "____" for the blank in the question and give "answers" (accepted answers)` + "\n")
	b.WriteString("Do not wrap the array in markdown and do not add commentary.\n\n")
	b.WriteString("Course material:\n")
	b.WriteString(summary)
	return b.String()
}

// generatedOption 兼容字符串和 {"text": ..., "isCorrect": ...} 两种写法
type generatedOption struct {
	Text      string
	IsCorrect bool
}

func (o *generatedOption) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Text = s
		return nil
	}
	var obj struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	o.Text, o.IsCorrect = obj.Text, obj.IsCorrect
	return nil
}

// generatedQuestion 大模型输出的单道题
type generatedQuestion struct {
	Type                 string            `json:"type"`
	Question             string            `json:"question"`
	Text                 string            `json:"text"`
	Options              []generatedOption `json:"options"`
	CorrectOptionIndexes []int             `json:"correctOptionIndexes"`
	CorrectOptionIndex   *int              `json:"correctOptionIndex"`
	Answer               json.RawMessage   `json:"answer"`
	SampleAnswer         string            `json:"sampleAnswer"`
	Answers              []string          `json:"answers"`
	Explanation          string            `json:"explanation"`
	Difficulty           string            `json:"difficulty"`
}

func parseBoolish(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes":
		return true, true
	case "false", "f", "no":
		return false, true
	}
	return false, false
}

// toQuestionRequest 把模型输出转换为统一的题目请求，交由 buildQuestion 校验
func (g *generatedQuestion) toQuestionRequest(allowed map[model.QuestionType]bool, points decimal.Decimal) (QuestionRequest, error) {
	qt := normalizeQuestionType(g.Type)
	if !allowed[qt] {
		return QuestionRequest{}, invalidQuestion("type %q was not requested", g.Type)
	}
	text := g.Question
	if strings.TrimSpace(text) == "" {
		text = g.Text
	}
	req := QuestionRequest{
		Type:        qt,
		Text:        text,
		Points:      points,
		Difficulty:  model.Difficulty(strings.ToUpper(strings.TrimSpace(g.Difficulty))),
		Explanation: g.Explanation,
	}
	switch req.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		req.Difficulty = model.DifficultyMedium
	}

	switch qt {
	case model.QuestionTypeMCQ:
		indexes := append([]int(nil), g.CorrectOptionIndexes...)
		if g.CorrectOptionIndex != nil {
			indexes = append(indexes, *g.CorrectOptionIndex)
		}
		for _, o := range g.Options {
			req.Options = append(req.Options, OptionRequest{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		for _, idx := range indexes {
			if idx < 0 || idx >= len(req.Options) {
				return req, invalidQuestion("correct option index %d out of range", idx)
			}
			req.Options[idx].IsCorrect = true
		}
	case model.QuestionTypeTrueFalse:
		answer, ok := parseBoolish(g.Answer)
		if !ok {
			return req, invalidQuestion("true/false answer %s is not a boolean", string(g.Answer))
		}
		req.CorrectAnswer = model.MustEncodeKey(model.TrueFalseKey{Answer: answer})
	case model.QuestionTypeEssay:
		if g.SampleAnswer != "" {
			req.CorrectAnswer = model.MustEncodeKey(model.TextKey{Answer: g.SampleAnswer})
		}
	case model.QuestionTypeFillBlank:
		answers := g.Answers
		if len(answers) == 0 && len(g.Answer) > 0 {
			var s string
			if json.Unmarshal(g.Answer, &s) == nil && s != "" {
				answers = []string{s}
			}
		}
		if len(answers) > 0 {
			req.CorrectAnswer = model.MustEncodeKey(model.TextKey{Answer: strings.Join(answers, " | ")})
		}
	}
	return req, nil
}
