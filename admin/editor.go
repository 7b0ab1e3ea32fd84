// Package admin 后台目录编辑: 修改建筑中心与办公室的名称、位置和描述
//
// 编辑只触及这几个字段, 生成器写入的全景锚点、步行路径、单元号、
// 入口列表以及未知字段都原样保留。
package admin

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"office-navigator/model"
	"office-navigator/utils"
)

// ErrOfficeNotFound 下标越界
var ErrOfficeNotFound = errors.New("admin: office not found")

// NewOfficeName 新建办公室的默认名称
const NewOfficeName = "New Office"

// OfficeEdit 一次办公室编辑, nil 字段保持不变
type OfficeEdit struct {
	Name        *string  `json:"name"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Description *string  `json:"description"`
}

// BuildingEdit 建筑中心编辑, nil 字段保持不变
type BuildingEdit struct {
	Name *string  `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// Normalize 导入目录时整理数据: 去掉名称和描述两端空白,
// 空名称改为 "Office N", 非有限坐标归零
func Normalize(dir model.Directory) model.Directory {
	out := dir.Clone()
	out.BuildingCenter.Name = strings.TrimSpace(out.BuildingCenter.Name)
	out.BuildingCenter.Lat = finiteOrZero(out.BuildingCenter.Lat)
	out.BuildingCenter.Lng = finiteOrZero(out.BuildingCenter.Lng)
	for i := range out.Offices {
		o := &out.Offices[i]
		o.Name = strings.TrimSpace(o.Name)
		if o.Name == "" {
			o.Name = fmt.Sprintf("Office %d", i+1)
		}
		o.Description = strings.TrimSpace(o.Description)
		o.Lat = finiteOrZero(o.Lat)
		o.Lng = finiteOrZero(o.Lng)
	}
	if out.Offices == nil {
		out.Offices = []model.Office{}
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Validate 返回全部校验错误, 为空表示可以发布
func Validate(dir model.Directory) []string {
	var errs []string
	if !utils.ValidLatitude(dir.BuildingCenter.Lat) {
		errs = append(errs, "Building latitude must be between -90 and 90.")
	}
	if !utils.ValidLongitude(dir.BuildingCenter.Lng) {
		errs = append(errs, "Building longitude must be between -180 and 180.")
	}

	seen := make(map[string]int, len(dir.Offices))
	for i, o := range dir.Offices {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("Office %d must have a name.", i+1))
		} else if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Sprintf("Office %d has the same name as office %d.", i+1, first+1))
		} else {
			seen[name] = i
		}
		if !utils.ValidLatitude(o.Lat) {
			errs = append(errs, fmt.Sprintf("Office %d latitude must be between -90 and 90.", i+1))
		}
		if !utils.ValidLongitude(o.Lng) {
			errs = append(errs, fmt.Sprintf("Office %d longitude must be between -180 and 180.", i+1))
		}
	}
	return errs
}

// ValidationError 目录未通过校验, Problems 与 Validate 的返回相同
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid directory: " + strings.Join(e.Problems, " ")
}

// Check 写入文件或数据库之前的校验, 有问题时返回 *ValidationError
func Check(dir model.Directory) error {
	if errs := Validate(dir); len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// UpdateBuilding 修改建筑中心
func UpdateBuilding(dir *model.Directory, edit BuildingEdit) {
	if edit.Name != nil {
		dir.BuildingCenter.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Lat != nil {
		dir.BuildingCenter.Lat = *edit.Lat
	}
	if edit.Lng != nil {
		dir.BuildingCenter.Lng = *edit.Lng
	}
}

// AddOffice 在建筑中心追加一个新办公室, 返回其下标
func AddOffice(dir *model.Directory) int {
	dir.Offices = append(dir.Offices, model.Office{
		Name: NewOfficeName,
		Lat:  finiteOrZero(dir.BuildingCenter.Lat),
		Lng:  finiteOrZero(dir.BuildingCenter.Lng),
	})
	return len(dir.Offices) - 1
}

// UpdateOffice 修改第 index 个办公室的名称、位置或描述
func UpdateOffice(dir *model.Directory, index int, edit OfficeEdit) (model.Office, error) {
	if index < 0 || index >= len(dir.Offices) {
		return model.Office{}, ErrOfficeNotFound
	}
	o := &dir.Offices[index]
	if edit.Name != nil {
		o.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Lat != nil {
		o.Lat = *edit.Lat
	}
	if edit.Lng != nil {
		o.Lng = *edit.Lng
	}
	if edit.Description != nil {
		o.Description = strings.TrimSpace(*edit.Description)
	}
	return o.Clone(), nil
}

// RemoveOffice 删除第 index 个办公室, 其余顺序不变
func RemoveOffice(dir *model.Directory, index int) (model.Office, error) {
	if index < 0 || index >= len(dir.Offices) {
		return model.Office{}, ErrOfficeNotFound
	}
	removed := dir.Offices[index]
	dir.Offices = append(dir.Offices[:index:index], dir.Offices[index+1:]...)
	return removed, nil
}
