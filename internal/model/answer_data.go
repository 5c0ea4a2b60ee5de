package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptyAnswerData = errors.New("answer data is empty")

// AnswerPayload 按题型区分的作答内容，JSON 结构与客户端保持一致
type AnswerPayload interface {
	QuestionType() QuestionType
}

// FlexibleID 兼容数字和数字字符串两种写法
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid option id %s", string(data))
	}
	*id = FlexibleID(v)
	return nil
}

type MCQAnswer struct {
	SelectedOptionID *FlexibleID `json:"selectedOptionId"`
}

func (MCQAnswer) QuestionType() QuestionType { return QuestionTypeMCQ }

type TrueFalseAnswer struct {
	Answer *bool `json:"answer"`
}

func (TrueFalseAnswer) QuestionType() QuestionType { return QuestionTypeTrueFalse }

type EssayAnswer struct {
	Text string `json:"text"`
}

func (EssayAnswer) QuestionType() QuestionType { return QuestionTypeEssay }

type CodingAnswer struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (CodingAnswer) QuestionType() QuestionType { return QuestionTypeCoding }

type FillBlankAnswer struct {
	Blanks []string `json:"blanks"`
}

func (FillBlankAnswer) QuestionType() QuestionType { return QuestionTypeFillBlank }

type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type MatchingAnswer struct {
	Pairs []MatchingPair `json:"pairs"`
}

func (MatchingAnswer) QuestionType() QuestionType { return QuestionTypeMatching }

func isEmptyJSON(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// DecodeAnswer 按题型解析作答 JSON
func DecodeAnswer(t QuestionType, raw []byte) (AnswerPayload, error) {
	if isEmptyJSON(raw) {
		return nil, ErrEmptyAnswerData
	}
	switch t {
	case QuestionTypeMCQ:
		var a MCQAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case QuestionTypeTrueFalse:
		var a TrueFalseAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case QuestionTypeEssay:
		var a EssayAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case QuestionTypeCoding:
		var a CodingAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case QuestionTypeFillBlank:
		var a FillBlankAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case QuestionTypeMatching:
		var a MatchingAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("unsupported question type %q", t)
}

// AnswerKey 题目的标准答案
type AnswerKey interface {
	QuestionType() QuestionType
}

type TrueFalseKey struct {
	Answer bool `json:"answer"`
}

func (TrueFalseKey) QuestionType() QuestionType { return QuestionTypeTrueFalse }

type ChoiceKey struct {
	CorrectOptionIndexes []int `json:"correctOptionIndexes"`
}

func (ChoiceKey) QuestionType() QuestionType { return QuestionTypeMCQ }

// TextKey 主观题的参考答案，仅用于展示
type TextKey struct {
	Answer string `json:"answer"`
}

func (TextKey) QuestionType() QuestionType { return QuestionTypeEssay }

func DecodeAnswerKey(t QuestionType, raw []byte) (AnswerKey, error) {
	if isEmptyJSON(raw) {
		return nil, errors.New("correct answer is empty")
	}
	switch t {
	case QuestionTypeTrueFalse:
		var k struct {
			Answer *bool `json:"answer"`
		}
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		if k.Answer == nil {
			return nil, errors.New("correct answer missing boolean field")
		}
		return TrueFalseKey{Answer: *k.Answer}, nil
	case QuestionTypeMCQ:
		var k ChoiceKey
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		return k, nil
	case QuestionTypeEssay, QuestionTypeFillBlank, QuestionTypeCoding, QuestionTypeMatching:
		var k TextKey
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		return k, nil
	}
	return nil, fmt.Errorf("unsupported question type %q", t)
}

func MustEncodeKey(k AnswerKey) []byte {
	b, err := json.Marshal(k)
	if err != nil {
		panic(err)
	}
	return b
}
