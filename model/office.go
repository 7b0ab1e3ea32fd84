package model

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// 全景图来源
const (
	ProviderGoogle    = "google"
	ProviderLocal     = "local"
	ProviderMapillary = "mapillary"
)

// 生成全景锚点时使用的默认相机参数
const (
	DefaultPanoramaPitch  = 0.0
	DefaultPanoramaRadius = 60.0 // 搜索半径 (米)
)

// PanoramaAnchor 全景锚点: 请求 360° 街景的位置以及朝向入口的相机角度
type PanoramaAnchor struct {
	Provider string  `json:"provider"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Heading  int     `json:"heading"` // [0, 360)
	Pitch    float64 `json:"pitch"`
	Radius   float64 `json:"radius"` // 米
}

// Point 返回锚点坐标
func (p PanoramaAnchor) Point() Point {
	return Point{Lat: p.Lat, Lng: p.Lng}
}

type panoramaJSON struct {
	Provider string  `json:"provider"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Heading  float64 `json:"heading"`
	Pitch    float64 `json:"pitch"`
	Radius   float64 `json:"radius"`
}

// UnmarshalJSON 接受小数朝向 (旧版生成脚本的输出), 四舍五入并折回 [0, 360)
func (p *PanoramaAnchor) UnmarshalJSON(data []byte) error {
	var v panoramaJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	h := math.Mod(math.Round(v.Heading), 360)
	if h < 0 {
		h += 360
	}
	*p = PanoramaAnchor{
		Provider: v.Provider,
		Lat:      v.Lat,
		Lng:      v.Lng,
		Heading:  int(h),
		Pitch:    v.Pitch,
		Radius:   v.Radius,
	}
	return nil
}

// Office 目录中的一个办公室
//
// Panorama / WalkingPath / Unit / Entrances 由生成器写入, 为空表示没有;
// Entrances 只有在办公室有多个入口时才出现。
// WalkingPath / Entrances 为 nil 时省略, 显式的空列表编码为 []。
// Extra 保存 JSON 中未知的字段, 编码时原样写回。
type Office struct {
	Name        string          `json:"name"`
	Lat         float64         `json:"lat"`
	Lng         float64         `json:"lng"`
	Panorama    *PanoramaAnchor `json:"panorama,omitempty"`
	WalkingPath []Point         `json:"walkingPath,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Entrances   []Point         `json:"entrances,omitempty"`
	Description string          `json:"description,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Location 返回办公室图标坐标
func (o Office) Location() Point {
	return Point{Lat: o.Lat, Lng: o.Lng}
}

// HasPanorama 是否可以展示 360° 街景
func (o Office) HasPanorama() bool {
	return o.Panorama != nil
}

// HasMultipleEntrances 是否为多入口办公室
func (o Office) HasMultipleEntrances() bool {
	return len(o.Entrances) > 1
}

// officeFields 是 Office 自己认识的 JSON 字段
var officeFields = map[string]bool{
	"name":        true,
	"lat":         true,
	"lng":         true,
	"panorama":    true,
	"walkingPath": true,
	"unit":        true,
	"entrances":   true,
	"description": true,
}

type officeJSON Office

// MarshalJSON 按固定顺序写已知字段, 再按键名顺序追加 Extra
func (o Office) MarshalJSON() ([]byte, error) {
	fields := []struct {
		key     string
		value   any
		present bool
	}{
		{"name", o.Name, true},
		{"lat", o.Lat, true},
		{"lng", o.Lng, true},
		{"panorama", o.Panorama, o.Panorama != nil},
		{"walkingPath", o.WalkingPath, o.WalkingPath != nil},
		{"unit", o.Unit, o.Unit != ""},
		{"entrances", o.Entrances, o.Entrances != nil},
		{"description", o.Description, o.Description != ""},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	write := func(key string, value []byte) error {
		name, err := json.Marshal(key)
		if err != nil {
			return err
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, f := range fields {
		if !f.present {
			continue
		}
		b, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		if err := write(f.key, b); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		if !officeFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, o.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 解析已知字段, 其余字段进入 Extra
func (o *Office) UnmarshalJSON(data []byte) error {
	var known officeJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if officeFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		known.Extra = raw
	}

	*o = Office(known)
	return nil
}

// BuildingCenter 建筑参考中心点
type BuildingCenter struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// Point 返回中心点坐标
func (b BuildingCenter) Point() Point {
	return Point{Lat: b.Lat, Lng: b.Lng}
}

// DefaultBuildingCenter 没有已有目录时使用的建筑中心
var DefaultBuildingCenter = BuildingCenter{
	Lat:  41.750197,
	Lng:  -87.937808,
	Name: "Willowbrook Office Building",
}

// Directory 持久化的办公室目录 (offices.json)
type Directory struct {
	BuildingCenter BuildingCenter `json:"buildingCenter"`
	Offices        []Office       `json:"offices"`
}

// FindOffice 按名称查找办公室, 返回下标
func (d *Directory) FindOffice(name string) (int, bool) {
	for i := range d.Offices {
		if d.Offices[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Clone 深拷贝目录, 编辑草稿时避免修改共享数据
func (d Directory) Clone() Directory {
	out := Directory{BuildingCenter: d.BuildingCenter}
	if d.Offices != nil {
		out.Offices = make([]Office, len(d.Offices))
		for i, o := range d.Offices {
			out.Offices[i] = o.Clone()
		}
	}
	return out
}

// Clone 深拷贝办公室
func (o Office) Clone() Office {
	c := o
	if o.Panorama != nil {
		p := *o.Panorama
		c.Panorama = &p
	}
	c.WalkingPath = clonePoints(o.WalkingPath)
	c.Entrances = clonePoints(o.Entrances)
	if o.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// clonePoints 复制点列表, 保留 nil 与空列表的区别
func clonePoints(p []Point) []Point {
	if p == nil {
		return nil
	}
	return append(make([]Point, 0, len(p)), p...)
}
