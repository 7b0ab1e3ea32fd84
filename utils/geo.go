package utils

import (
	"math"
	"office-navigator/model"
)

// EarthRadius 地球平均半径 (米)
const EarthRadius = 6371000.0

// DegreesToRadians 角度转弧度
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// RadiansToDegrees 弧度转角度
func RadiansToDegrees(r float64) float64 {
	return r * 180.0 / math.Pi
}

// HaversineDistance Haversine 公式 (直接计算两点间球面距离, 单位米)
// d(a, a) == 0, 且 d(a, b) == d(b, a)
func HaversineDistance(p1, p2 model.Point) float64 {
	lat1 := DegreesToRadians(p1.Lat)
	lat2 := DegreesToRadians(p2.Lat)
	dLat := DegreesToRadians(p2.Lat - p1.Lat)
	dLng := DegreesToRadians(p2.Lng - p1.Lng)

	// a = sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlng/2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// c = 2 * atan2(√a, √(1-a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// Bearing 从 from 指向 to 的初始方位角, 正北为 0, 顺时针, 范围 [0, 360)
func Bearing(from, to model.Point) float64 {
	lat1 := DegreesToRadians(from.Lat)
	lat2 := DegreesToRadians(to.Lat)
	dLng := DegreesToRadians(to.Lng - from.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	bearing := math.Mod(RadiansToDegrees(math.Atan2(y, x))+360, 360)
	// -0 与浮点误差可能得到 360
	if bearing >= 360 || bearing < 0 {
		bearing = 0
	}
	return bearing
}

// Centroid 经纬度的算术平均 (平面近似, 只适用于建筑尺度)
// 调用方保证 points 非空
func Centroid(points []model.Point) model.Point {
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return model.Point{Lat: sumLat / n, Lng: sumLng / n}
}

// ValidPoint 坐标是否为有限值且在 WGS84 范围内
func ValidPoint(p model.Point) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return ValidLatitude(p.Lat) && ValidLongitude(p.Lng)
}

// ValidLatitude 纬度在 [-90, 90]
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude 经度在 [-180, 180]
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
