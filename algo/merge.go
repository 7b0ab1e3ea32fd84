package algo

import "office-navigator/model"

// MergeDirectory 把新生成的办公室追加到已有目录之后
//
// 已有办公室保持原来的顺序和内容, 新办公室在末尾 (已各自排好序), 不做全局重排;
// 已有目录的建筑中心原样保留。existing 为 nil 时使用默认建筑中心和空列表。
func MergeDirectory(existing *model.Directory, generated []model.Office) model.Directory {
	base := model.Directory{BuildingCenter: model.DefaultBuildingCenter}
	if existing != nil {
		base = existing.Clone()
	}

	offices := make([]model.Office, 0, len(base.Offices)+len(generated))
	offices = append(offices, base.Offices...)
	for _, o := range generated {
		offices = append(offices, o.Clone())
	}

	return model.Directory{
		BuildingCenter: base.BuildingCenter,
		Offices:        offices,
	}
}
