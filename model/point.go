package model

// Point 代表一个经纬度点 (WGS84)
type Point struct {
	Lat float64 `json:"lat"` // 纬度
	Lng float64 `json:"lng"` // 经度
}

// Entrance 带有所属办公室名称的建筑入口 (一个办公室可以有多个门)
type Entrance struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Point 返回入口坐标
func (e Entrance) Point() Point {
	return Point{Lat: e.Lat, Lng: e.Lng}
}
