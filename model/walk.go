package model

// 步行速度 (米/秒): 约 5 km/h
const SpeedWalk = 1.4

// EstimateWalkTime 根据距离估算步行时间 (秒)
func EstimateWalkTime(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return distance / SpeedWalk
}

// PathLength 折线总长度 (米), dist 为两点间距离函数
func PathLength(path []Point, dist func(a, b Point) float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += dist(path[i], path[i+1])
	}
	return total
}
