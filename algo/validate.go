package algo

import (
	"fmt"
	"sort"
	"strings"

	"office-navigator/model"
	"office-navigator/utils"
)

// DataError 输入数据质量问题
type DataError struct {
	Table  string // panoramas / sidewalks / entrances / icons
	Index  int    // 表内下标, 不适用时为 -1
	Name   string // 相关办公室名称, 可为空
	Reason string
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("survey data: ")
	b.WriteString(e.Table)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// ValidateSurvey 在生成前检查输入, 避免 NaN 悄悄污染距离和方位角计算
func ValidateSurvey(data model.SurveyData) error {
	if err := validatePoints("panoramas", data.Panoramas); err != nil {
		return err
	}
	if err := validatePoints("sidewalks", data.Sidewalks); err != nil {
		return err
	}

	for i, e := range data.Entrances {
		if strings.TrimSpace(e.Name) == "" {
			return &DataError{Table: "entrances", Index: i, Reason: "missing office name"}
		}
		if !utils.ValidPoint(e.Point()) {
			return &DataError{Table: "entrances", Index: i, Name: e.Name, Reason: badCoordinate(e.Point())}
		}
	}

	names := make([]string, 0, len(data.IconOverrides))
	for name := range data.IconOverrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p := data.IconOverrides[name]; !utils.ValidPoint(p) {
			return &DataError{Table: "icons", Index: -1, Name: name, Reason: badCoordinate(p)}
		}
	}

	if len(data.Entrances) > 0 {
		if len(data.Sidewalks) == 0 {
			return &DataError{Table: "sidewalks", Index: -1, Reason: "no sidewalk points"}
		}
		if len(data.Panoramas) == 0 {
			return &DataError{Table: "panoramas", Index: -1, Reason: "no panorama points"}
		}
	}
	return nil
}

func validatePoints(table string, points []model.Point) error {
	for i, p := range points {
		if !utils.ValidPoint(p) {
			return &DataError{Table: table, Index: i, Reason: badCoordinate(p)}
		}
	}
	return nil
}

func badCoordinate(p model.Point) string {
	return fmt.Sprintf("invalid coordinate (%v, %v)", p.Lat, p.Lng)
}
