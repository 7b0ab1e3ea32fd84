package model

// SurveyData 生成器的全部输入: 实地采集的三张点表加上手工图标位置
type SurveyData struct {
	Panoramas     []Point          // 全景拍摄点
	Sidewalks     []Point          // 人行道采样点
	Entrances     []Entrance       // 建筑入口 (按采集顺序)
	IconOverrides map[string]Point // 办公室名称 -> 手工确定的图标位置, 可为空
}
