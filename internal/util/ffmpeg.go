package util

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo 视频资料的基本信息
type MediaInfo struct {
	Duration float64 `json:"duration"` // 秒
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   string  `json:"format"`
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Format   string `json:"format_name"`
	} `json:"format"`
}

// ProbeMedia 调用 ffprobe 获取时长和分辨率
func ProbeMedia(path string) (*MediaInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("获取视频信息失败: %w", err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(out string) (*MediaInfo, error) {
	var result probeOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("解析视频信息失败: %w", err)
	}

	info := &MediaInfo{Format: "unknown"}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if parts := strings.Split(result.Format.Format, ","); parts[0] != "" {
		info.Format = parts[0]
	}
	return info, nil
}
