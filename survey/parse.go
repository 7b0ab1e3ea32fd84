// Package survey 读取实地采集的原始点表 (全景点、人行道点、入口点、图标位置)
package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"office-navigator/model"
)

var (
	// "(41.75, -87.93)" 或 "41.75, -87.93", 要求带小数部分
	coordinatePattern = regexp.MustCompile(`\(?\s*(-?\d+\.\d+)\s*,\s*(-?\d+\.\d+)\s*\)?`)
	// "Firmus Medical, LLC 41.750732234024795, -87.93782490440809"
	entrancePattern = regexp.MustCompile(`^(.*?)\s+(-?\d+\.\d+),\s*(-?\d+\.\d+)\s*$`)

	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// ParseCoordinates 按出现顺序取出文本中的所有坐标对
func ParseCoordinates(text string) ([]model.Point, error) {
	var points []model.Point
	for _, m := range coordinatePattern.FindAllStringSubmatch(text, -1) {
		p, err := parsePoint(m[1], m[2])
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// EntranceResult 入口表解析结果, Skipped 为无法解析的行
type EntranceResult struct {
	Entrances []model.Entrance
	Skipped   []string
}

// ParseEntrances 每个非空行一条 "名称 lat, lng"
func ParseEntrances(text string) (EntranceResult, error) {
	var res EntranceResult
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := entrancePattern.FindStringSubmatch(line)
		if m == nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		p, err := parsePoint(m[2], m[3])
		if err != nil {
			return EntranceResult{}, err
		}
		res.Entrances = append(res.Entrances, model.Entrance{
			Name: strings.TrimSpace(m[1]),
			Lat:  p.Lat,
			Lng:  p.Lng,
		})
	}
	return res, nil
}

// ParseIconOverrides 解析 {"offices":[{"name","lat","lng"}]}
// 容忍 UTF-8 BOM 和 } / ] 之前多余的逗号
func ParseIconOverrides(data []byte) (map[string]model.Point, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = trailingCommaObject.ReplaceAll(data, []byte("}"))
	data = trailingCommaArray.ReplaceAll(data, []byte("]"))

	var raw struct {
		Offices []struct {
			Name string  `json:"name"`
			Lat  float64 `json:"lat"`
			Lng  float64 `json:"lng"`
		} `json:"offices"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse icon locations: %w", err)
	}

	icons := make(map[string]model.Point, len(raw.Offices))
	for _, o := range raw.Offices {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			continue
		}
		icons[name] = model.Point{Lat: o.Lat, Lng: o.Lng}
	}
	return icons, nil
}

func parsePoint(lat, lng string) (model.Point, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("bad latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("bad longitude %q: %w", lng, err)
	}
	return model.Point{Lat: la, Lng: ln}, nil
}
