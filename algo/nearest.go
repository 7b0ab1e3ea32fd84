package algo

import (
	"errors"
	"math"

	"office-navigator/model"
	"office-navigator/utils"
)

// ErrNoCandidates 在空集合中查找最近点 (调用方违反前置条件)
var ErrNoCandidates = errors.New("nearest point search: empty candidate set")

// Nearest 最近点及其距离 (米)
type Nearest struct {
	Point    model.Point
	Distance float64
}

// FindNearest 线性扫描找到离 target 最近的候选点
// 距离相同时保留先出现的点 (严格小于比较)
func FindNearest(target model.Point, candidates []model.Point) (Nearest, error) {
	if len(candidates) == 0 {
		return Nearest{}, ErrNoCandidates
	}

	best := Nearest{Distance: math.Inf(1)}
	for _, p := range candidates {
		dist := utils.HaversineDistance(target, p)
		if dist < best.Distance {
			best = Nearest{Point: p, Distance: dist}
		}
	}
	return best, nil
}
