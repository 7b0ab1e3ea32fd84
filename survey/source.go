package survey

import (
	"context"
	"fmt"
	"os"

	"office-navigator/logger"
	"office-navigator/model"
)

// Source 生成器的输入来源
type Source interface {
	Load(ctx context.Context) (model.SurveyData, error)
}

// FileSource 从原始采集文件读取, IconPath 可为空
type FileSource struct {
	PanoramaPath string
	SidewalkPath string
	EntrancePath string
	IconPath     string
}

func (s FileSource) Load(ctx context.Context) (model.SurveyData, error) {
	var data model.SurveyData
	l := logger.L()

	panoramas, err := readCoordinates(s.PanoramaPath)
	if err != nil {
		return data, err
	}
	sidewalks, err := readCoordinates(s.SidewalkPath)
	if err != nil {
		return data, err
	}

	raw, err := os.ReadFile(s.EntrancePath)
	if err != nil {
		return data, fmt.Errorf("read entrances: %w", err)
	}
	res, err := ParseEntrances(string(raw))
	if err != nil {
		return data, fmt.Errorf("parse %s: %w", s.EntrancePath, err)
	}
	for _, line := range res.Skipped {
		l.Warn("entrance_line_skipped", "file", s.EntrancePath, "line", line)
	}

	if s.IconPath != "" {
		b, err := os.ReadFile(s.IconPath)
		if err != nil {
			return data, fmt.Errorf("read icon locations: %w", err)
		}
		if data.IconOverrides, err = ParseIconOverrides(b); err != nil {
			return data, fmt.Errorf("%s: %w", s.IconPath, err)
		}
	}

	data.Panoramas = panoramas
	data.Sidewalks = sidewalks
	data.Entrances = res.Entrances
	l.Info("survey_loaded",
		"panoramas", len(data.Panoramas),
		"sidewalks", len(data.Sidewalks),
		"entrances", len(data.Entrances),
		"icons", len(data.IconOverrides),
	)
	return data, ctx.Err()
}

func readCoordinates(path string) ([]model.Point, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coordinates: %w", err)
	}
	points, err := ParseCoordinates(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return points, nil
}
