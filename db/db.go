package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"office-navigator/admin"
	"office-navigator/config"
	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/store"
	"office-navigator/utils"
)

var DB *gorm.DB

// InitDB 连接 PostgreSQL, 自动迁移表结构;
// 第一次运行时把 offices.json 导入数据库并创建管理员账号
func InitDB(cfg config.Config) error {
	l := logger.L()

	// 带重试的数据库连接 (Docker 启动时数据库可能还没准备好)
	var err error
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
		if err == nil {
			break
		}
		l.Warn("db_wait", "attempt", i+1, "max", maxRetries, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// 自动迁移模式 (自动创建表结构)
	if err := DB.AutoMigrate(&model.User{}, &model.OfficeRow{}, &model.BuildingRow{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var officeCount int64
	DB.Model(&model.OfficeRow{}).Count(&officeCount)
	if officeCount == 0 && cfg.DirectoryPath != "" {
		l.Info("db_empty_import", "path", cfg.DirectoryPath)
		// 导入失败时不启动, 避免以空目录对外服务
		if err := importDirectory(cfg.DirectoryPath); err != nil {
			return fmt.Errorf("import %s: %w", cfg.DirectoryPath, err)
		}
	}

	if err := seedAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		l.Warn("db_seed_admin_failed", "err", err)
	}

	l.Info("db_init_ok")
	return nil
}

// importDirectory 从 JSON 目录文件导入办公室
func importDirectory(path string) error {
	ctx := context.Background()
	dir, err := loadImport(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		logger.L().Info("db_import_skipped", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	if err := NewRepository(DB).Save(ctx, dir); err != nil {
		return err
	}
	logger.L().Info("db_import_ok", "offices", len(dir.Offices))
	return nil
}

// loadImport 读取并整理待导入的目录, 重名等问题在写库之前报告
func loadImport(ctx context.Context, path string) (model.Directory, error) {
	dir, err := store.NewFileStore(path).Load(ctx)
	if err != nil {
		return dir, err
	}
	dir = admin.Normalize(dir)
	if err := admin.Check(dir); err != nil {
		return dir, err
	}
	return dir, nil
}

// seedAdmin 账号不存在且设置了密码时创建管理员
func seedAdmin(username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	repo := NewRepository(DB)
	_, err := repo.FindUser(context.Background(), username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := &model.User{Username: username, Password: hash}
	if err := DB.Create(user).Error; err != nil {
		return err
	}
	logger.L().Info("db_admin_created", "username", username)
	return nil
}
