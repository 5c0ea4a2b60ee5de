package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// stripCodeFence 去掉模型输出中的 ```json 代码块包裹
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "```")
	if start == -1 {
		return content
	}
	body := content[start+3:]
	if nl := strings.Index(body, "\n"); nl != -1 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func unmarshalLenient(s string, v interface{}) error {
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(trailingComma.ReplaceAllString(s, "$1")), v)
}

// ExtractJSONArray 容忍代码块、前后说明文字、尾逗号，以及 {"questions": [...]} 形式的包裹
func ExtractJSONArray(content string) ([]json.RawMessage, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, errors.New("empty content")
	}

	if s, e := strings.Index(content, "["), strings.LastIndex(content, "]"); s != -1 && e > s {
		var items []json.RawMessage
		if err := unmarshalLenient(content[s:e+1], &items); err == nil {
			return items, nil
		}
	}

	if s, e := strings.Index(content, "{"), strings.LastIndex(content, "}"); s != -1 && e > s {
		var obj map[string]json.RawMessage
		if err := unmarshalLenient(content[s:e+1], &obj); err == nil {
			for _, key := range []string{"questions", "items", "data"} {
				var items []json.RawMessage
				if raw, ok := obj[key]; ok && json.Unmarshal(raw, &items) == nil {
					return items, nil
				}
			}
			// 单个题目对象
			if _, ok := obj["type"]; ok {
				return []json.RawMessage{json.RawMessage(content[s : e+1])}, nil
			}
		}
	}
	return nil, errors.New("no JSON array found in model output")
}
