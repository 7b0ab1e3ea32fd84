package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"office-navigator/algo"
	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/routing"
	"office-navigator/utils"
)

// Router 步行路网 (应在 main 中初始化)
var Router routing.Router

// RouteRequest 路线请求: 用户当前位置和目标办公室名称
type RouteRequest struct {
	StartLat *float64 `json:"start_lat" binding:"required"`
	StartLng *float64 `json:"start_lng" binding:"required"`
	Office   string   `json:"office" binding:"required"`
}

// RouteResponse 路线响应
type RouteResponse struct {
	Found         bool                  `json:"found"`
	Office        string                `json:"office"`
	Destination   model.Point           `json:"destination"`
	Geometry      []model.Point         `json:"geometry,omitempty"`
	Steps         []routing.Step        `json:"steps,omitempty"`
	RouteDistance float64               `json:"route_distance,omitempty"` // 路网部分 (米)
	PathDistance  float64               `json:"path_distance,omitempty"`  // 步行路径部分 (米)
	Distance      float64               `json:"distance,omitempty"`       // 总距离 (米)
	EstimatedTime float64               `json:"estimated_time,omitempty"` // 预计时间 (秒)
	Panorama      *model.PanoramaAnchor `json:"panorama,omitempty"`
	Message       string                `json:"message,omitempty"`
}

// FindRoute 从用户位置规划到办公室的步行路线, 末段接上生成的步行路径
func FindRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	start := model.Point{Lat: *req.StartLat, Lng: *req.StartLng}
	if !utils.ValidPoint(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "起点坐标无效"})
		return
	}

	if Router == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "路网服务未配置"})
		return
	}
	dir, ok := directoryOrAbort(c)
	if !ok {
		return
	}
	i, found := dir.FindOffice(req.Office)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "办公室不存在: " + req.Office})
		return
	}
	office := dir.Offices[i]
	dest := algo.Destination(office)

	route, err := Router.Walk(c.Request.Context(), start, dest)
	if errors.Is(err, routing.ErrNoRoute) {
		c.JSON(http.StatusOK, RouteResponse{
			Found:       false,
			Office:      office.Name,
			Destination: dest,
			Message:     "未找到步行路线",
		})
		return
	}
	if err != nil {
		logger.L().Error("route_error", "office", office.Name, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "路网服务请求失败"})
		return
	}

	// 公共 OSRM 服务对 foot 也返回驾车时间, 按步行速度重算
	wr := algo.StitchRoute(route.Geometry, route.Distance, model.EstimateWalkTime(route.Distance), office)
	c.JSON(http.StatusOK, RouteResponse{
		Found:         true,
		Office:        office.Name,
		Destination:   dest,
		Geometry:      wr.Geometry,
		Steps:         route.Steps,
		RouteDistance: wr.RouteDistance,
		PathDistance:  wr.PathDistance,
		Distance:      wr.Distance,
		EstimatedTime: wr.EstimatedTime,
		Panorama:      office.Panorama,
		Message:       algo.FormatRoute(office.Name, wr),
	})
}
