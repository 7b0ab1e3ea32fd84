package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"office-navigator/model"
	"office-navigator/store"
)

// Repository 以 PostgreSQL 保存已发布目录和管理员账号
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Load 读取目录, 按 position 还原办公室顺序
func (r *Repository) Load(ctx context.Context) (model.Directory, error) {
	var dir model.Directory
	tx := r.DB.WithContext(ctx)

	var building model.BuildingRow
	err := tx.First(&building).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dir, store.ErrNotFound
	}
	if err != nil {
		return dir, err
	}

	var rows []model.OfficeRow
	if err := tx.Order("position").Find(&rows).Error; err != nil {
		return dir, err
	}
	return directoryFromRows(building, rows), nil
}

// Save 在一个事务中整体替换目录
func (r *Repository) Save(ctx context.Context, dir model.Directory) error {
	building, rows := directoryToRows(dir)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.OfficeRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.BuildingRow{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&building).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

// FindUser 按用户名查找管理员, 不存在时返回 store.ErrNotFound
func (r *Repository) FindUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func directoryToRows(dir model.Directory) (model.BuildingRow, []model.OfficeRow) {
	c := dir.BuildingCenter
	building := model.BuildingRow{Name: c.Name, Lat: c.Lat, Lng: c.Lng}
	rows := make([]model.OfficeRow, len(dir.Offices))
	for i, o := range dir.Offices {
		rows[i] = model.NewOfficeRow(o, i)
	}
	return building, rows
}

func directoryFromRows(building model.BuildingRow, rows []model.OfficeRow) model.Directory {
	dir := model.Directory{
		BuildingCenter: building.Center(),
		Offices:        make([]model.Office, len(rows)),
	}
	for i, row := range rows {
		dir.Offices[i] = row.Office()
	}
	return dir
}
