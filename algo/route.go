package algo

import (
	"fmt"
	"math"

	"office-navigator/model"
	"office-navigator/utils"
)

// joinTolerance 路线终点与步行路径起点小于该距离 (米) 时视为同一点
const joinTolerance = 0.5

// WalkingRoute 路网路线接上生成的步行路径后的完整结果
type WalkingRoute struct {
	Geometry      []model.Point // 完整折线
	RouteDistance float64       // 路网部分距离 (米)
	RouteTime     float64       // 路网部分时间 (秒)
	PathDistance  float64       // 步行路径部分距离 (米)
	PathTime      float64       // 步行路径部分时间 (秒)
	Distance      float64       // 总距离 (米)
	EstimatedTime float64       // 预计总时间 (秒)
}

// Destination 路径规划的终点: 有步行路径时为路径起点 (全景点), 否则为办公室图标
func Destination(o model.Office) model.Point {
	if len(o.WalkingPath) > 0 {
		return o.WalkingPath[0]
	}
	return o.Location()
}

// StitchRoute 把办公室的步行路径接在路网折线之后
func StitchRoute(geometry []model.Point, distance, duration float64, o model.Office) WalkingRoute {
	out := WalkingRoute{
		Geometry:      append([]model.Point(nil), geometry...),
		RouteDistance: distance,
		RouteTime:     duration,
	}

	path := o.WalkingPath
	if len(path) > 0 {
		if n := len(out.Geometry); n > 0 && utils.HaversineDistance(out.Geometry[n-1], path[0]) < joinTolerance {
			path = path[1:]
		}
		out.Geometry = append(out.Geometry, path...)
		out.PathDistance = model.PathLength(o.WalkingPath, utils.HaversineDistance)
		out.PathTime = model.EstimateWalkTime(out.PathDistance)
	}

	out.Distance = out.RouteDistance + out.PathDistance
	out.EstimatedTime = out.RouteTime + out.PathTime
	return out
}

// FormatRoute 格式化为可读摘要, 例如 "Route to SFUSA: 0.25 km, ~4 min walk"
func FormatRoute(name string, r WalkingRoute) string {
	return fmt.Sprintf("Route to %s: %.2f km, ~%d min walk",
		name, r.Distance/1000, int(math.Round(r.EstimatedTime/60)))
}
