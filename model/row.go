package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfficeRow 办公室在 PostgreSQL 中的存储形式
// 生成器写入的字段以 JSON 列保存, 后台编辑时原样保留
type OfficeRow struct {
	ID          uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	Position    int                        `gorm:"index;not null"` // 目录中的顺序
	Name        string                     `gorm:"uniqueIndex;not null"`
	Lat         float64                    `gorm:"not null"`
	Lng         float64                    `gorm:"not null"`
	Unit        string                     `gorm:"size:32"`
	Description string                     `gorm:"type:text"`
	Panorama    *PanoramaAnchor            `gorm:"type:jsonb;serializer:json"`
	WalkingPath []Point                    `gorm:"type:jsonb;serializer:json"`
	Entrances   []Point                    `gorm:"type:jsonb;serializer:json"`
	Extra       map[string]json.RawMessage `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OfficeRow) TableName() string { return "offices" }

func (r *OfficeRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewOfficeRow 把目录中第 pos 个办公室转换为数据库行
func NewOfficeRow(o Office, pos int) OfficeRow {
	c := o.Clone()
	return OfficeRow{
		Position:    pos,
		Name:        c.Name,
		Lat:         c.Lat,
		Lng:         c.Lng,
		Unit:        c.Unit,
		Description: c.Description,
		Panorama:    c.Panorama,
		WalkingPath: c.WalkingPath,
		Entrances:   c.Entrances,
		Extra:       c.Extra,
	}
}

// Office 还原为目录中的办公室
func (r OfficeRow) Office() Office {
	o := Office{
		Name:        r.Name,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Panorama:    r.Panorama,
		WalkingPath: r.WalkingPath,
		Unit:        r.Unit,
		Entrances:   r.Entrances,
		Description: r.Description,
	}
	if len(r.Extra) > 0 {
		o.Extra = r.Extra
	}
	return o.Clone()
}

// BuildingRow 建筑中心, 表中只有一行
type BuildingRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

func (BuildingRow) TableName() string { return "building_centers" }

func (r *BuildingRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Center 转换为目录中的建筑中心
func (r BuildingRow) Center() BuildingCenter {
	return BuildingCenter{Lat: r.Lat, Lng: r.Lng, Name: r.Name}
}
