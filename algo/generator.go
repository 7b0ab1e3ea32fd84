package algo

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/utils"
)

// unitPattern 匹配名称中的 "(Unit 608)" 后缀
var unitPattern = regexp.MustCompile(`\(Unit (\d+)\)`)

// ExtractUnit 从办公室名称中取出单元号, 没有时返回空串
func ExtractUnit(name string) string {
	m := unitPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// officeGroup 同名入口的集合, 保持首次出现的顺序
type officeGroup struct {
	name      string
	entrances []model.Point
}

func groupEntrances(entrances []model.Entrance) []officeGroup {
	index := make(map[string]int)
	var groups []officeGroup
	for _, e := range entrances {
		i, ok := index[e.Name]
		if !ok {
			i = len(groups)
			index[e.Name] = i
			groups = append(groups, officeGroup{name: e.Name})
		}
		groups[i].entrances = append(groups[i].entrances, e.Point())
	}
	return groups
}

// GenerateOffices 为每个出现在入口表中的办公室生成导航记录
// 结果按名称做区域化排序 (英文排序规则)
func GenerateOffices(data model.SurveyData) ([]model.Office, error) {
	if err := ValidateSurvey(data); err != nil {
		return nil, err
	}

	groups := groupEntrances(data.Entrances)
	offices := make([]model.Office, 0, len(groups))
	for _, g := range groups {
		office, err := buildOffice(g, data)
		if err != nil {
			return nil, fmt.Errorf("office %q: %w", g.name, err)
		}
		offices = append(offices, office)
	}

	SortOffices(offices)
	return offices, nil
}

// buildOffice 生成单个办公室: 全景点 -> 人行道 -> 主入口
func buildOffice(g officeGroup, data model.SurveyData) (model.Office, error) {
	l := logger.L()

	icon, ok := data.IconOverrides[g.name]
	if ok {
		l.Debug("office_icon_override", "office", g.name, "lat", icon.Lat, "lng", icon.Lng)
	} else {
		icon = utils.Centroid(g.entrances)
		l.Info("office_icon_centroid", "office", g.name, "lat", icon.Lat, "lng", icon.Lng)
	}

	// 多入口时按输入顺序取第一个入口作为路径和朝向的参考
	primary := g.entrances[0]

	sidewalk, err := FindNearest(primary, data.Sidewalks)
	if err != nil {
		return model.Office{}, fmt.Errorf("nearest sidewalk: %w", err)
	}

	// 全景点取离人行道点最近的, 而不是离入口最近的
	pano, err := FindNearest(sidewalk.Point, data.Panoramas)
	if err != nil {
		return model.Office{}, fmt.Errorf("nearest panorama: %w", err)
	}

	heading := RoundHeading(utils.Bearing(pano.Point, primary))

	office := model.Office{
		Name: g.name,
		Lat:  icon.Lat,
		Lng:  icon.Lng,
		Panorama: &model.PanoramaAnchor{
			Provider: model.ProviderGoogle,
			Lat:      pano.Point.Lat,
			Lng:      pano.Point.Lng,
			Heading:  heading,
			Pitch:    model.DefaultPanoramaPitch,
			Radius:   model.DefaultPanoramaRadius,
		},
		WalkingPath: []model.Point{pano.Point, sidewalk.Point, primary},
		Unit:        ExtractUnit(g.name),
	}
	if len(g.entrances) > 1 {
		office.Entrances = append([]model.Point(nil), g.entrances...)
	}

	l.Debug("office_processed",
		"office", g.name,
		"panorama_lat", pano.Point.Lat,
		"panorama_lng", pano.Point.Lng,
		"panorama_distance_m", math.Round(pano.Distance*10)/10,
		"sidewalk_lat", sidewalk.Point.Lat,
		"sidewalk_lng", sidewalk.Point.Lng,
		"sidewalk_distance_m", math.Round(sidewalk.Distance*10)/10,
		"heading", heading,
		"entrances", len(g.entrances),
	)
	return office, nil
}

// RoundHeading 四舍五入到整数度, 360 折回 0
func RoundHeading(bearing float64) int {
	return int(math.Round(bearing)) % 360
}

// SortOffices 按名称做区域化排序 (大小写不敏感的英文规则)
func SortOffices(offices []model.Office) {
	c := collate.New(language.English)
	sort.SliceStable(offices, func(i, j int) bool {
		return c.CompareString(offices[i].Name, offices[j].Name) < 0
	})
}
