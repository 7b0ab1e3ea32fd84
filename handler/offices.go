package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/store"
)

// Directory 已发布目录 (应在 main 中初始化)
var Directory store.DirectoryStore

// loadDirectory 读取已发布目录, 还没有目录时返回默认建筑中心和空列表
func loadDirectory(ctx context.Context) (model.Directory, error) {
	if Directory == nil {
		return model.Directory{}, errors.New("directory store not configured")
	}
	dir, err := Directory.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return model.Directory{BuildingCenter: model.DefaultBuildingCenter, Offices: []model.Office{}}, nil
	}
	if err != nil {
		return dir, err
	}
	if dir.Offices == nil {
		dir.Offices = []model.Office{}
	}
	return dir, nil
}

func directoryOrAbort(c *gin.Context) (model.Directory, bool) {
	dir, err := loadDirectory(c.Request.Context())
	if err != nil {
		logger.L().Error("directory_load_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目录数据未加载"})
		return dir, false
	}
	return dir, true
}

// GetDirectory 返回完整目录 (与 offices.json 格式相同)
func GetDirectory(c *gin.Context) {
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dir)
}

// GetOffices 获取所有办公室
func GetOffices(c *gin.Context) {
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(dir.Offices),
		"offices": dir.Offices,
	})
}

// GetOfficeByName 根据名称获取办公室
func GetOfficeByName(c *gin.Context) {
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}
	i, found := dir.FindOffice(c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "办公室不存在"})
		return
	}
	c.JSON(http.StatusOK, dir.Offices[i])
}

// SearchOffices 搜索办公室 (名称或描述, 不区分大小写)
func SearchOffices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键词"})
		return
	}
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}

	q := strings.ToLower(query)
	results := make([]model.Office, 0)
	for _, o := range dir.Offices {
		if strings.Contains(strings.ToLower(o.Name), q) || strings.Contains(strings.ToLower(o.Description), q) {
			results = append(results, o)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// GetOfficeGeoJSON 以 GeoJSON FeatureCollection 返回办公室的图标、全景点、步行路径和入口
func GetOfficeGeoJSON(c *gin.Context) {
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}
	i, found := dir.FindOffice(c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "办公室不存在"})
		return
	}
	c.JSON(http.StatusOK, OfficeFeatures(dir.Offices[i]))
}

// OfficeFeatures 办公室的 GeoJSON 表示, 坐标顺序为 [lng, lat]
func OfficeFeatures(o model.Office) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	icon := geojson.NewFeature(toOrb(o.Location()))
	icon.Properties["kind"] = "office"
	icon.Properties["name"] = o.Name
	if o.Unit != "" {
		icon.Properties["unit"] = o.Unit
	}
	if o.Description != "" {
		icon.Properties["description"] = o.Description
	}
	fc.Append(icon)

	if p := o.Panorama; p != nil {
		f := geojson.NewFeature(toOrb(p.Point()))
		f.Properties["kind"] = "panorama"
		f.Properties["provider"] = p.Provider
		f.Properties["heading"] = p.Heading
		f.Properties["pitch"] = p.Pitch
		f.Properties["radius"] = p.Radius
		fc.Append(f)
	}

	if len(o.WalkingPath) > 1 {
		line := make(orb.LineString, len(o.WalkingPath))
		for i, p := range o.WalkingPath {
			line[i] = toOrb(p)
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "walkingPath"
		fc.Append(f)
	}

	for i, e := range o.Entrances {
		f := geojson.NewFeature(toOrb(e))
		f.Properties["kind"] = "entrance"
		f.Properties["index"] = i
		fc.Append(f)
	}
	return fc
}

func toOrb(p model.Point) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
