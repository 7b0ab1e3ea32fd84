package survey

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"office-navigator/logger"
	"office-navigator/model"
)

// 采集数据表结构, 按 id 保持录入顺序
const schema = `
CREATE TABLE IF NOT EXISTS survey_panoramas (
    id  BIGSERIAL PRIMARY KEY,
    lat DOUBLE PRECISION NOT NULL,
    lng DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_sidewalks (
    id  BIGSERIAL PRIMARY KEY,
    lat DOUBLE PRECISION NOT NULL,
    lng DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_entrances (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    lat  DOUBLE PRECISION NOT NULL,
    lng  DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_icon_overrides (
    name TEXT PRIMARY KEY,
    lat  DOUBLE PRECISION NOT NULL,
    lng  DOUBLE PRECISION NOT NULL
);`

// SQLSource 从 PostgreSQL 读取采集数据
type SQLSource struct {
	DB *sql.DB
}

// OpenSQLSource 使用 DSN 打开连接
func OpenSQLSource(dsn string) (*SQLSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return &SQLSource{DB: db}, nil
}

// Close 关闭数据库连接
func (s *SQLSource) Close() error { return s.DB.Close() }

// EnsureSchema 创建采集数据表
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

func (s *SQLSource) Load(ctx context.Context) (model.SurveyData, error) {
	var data model.SurveyData
	var err error

	if data.Panoramas, err = s.points(ctx, "SELECT lat, lng FROM survey_panoramas ORDER BY id"); err != nil {
		return data, fmt.Errorf("load panoramas: %w", err)
	}
	if data.Sidewalks, err = s.points(ctx, "SELECT lat, lng FROM survey_sidewalks ORDER BY id"); err != nil {
		return data, fmt.Errorf("load sidewalks: %w", err)
	}
	if data.Entrances, err = s.entrances(ctx); err != nil {
		return data, fmt.Errorf("load entrances: %w", err)
	}
	if data.IconOverrides, err = s.icons(ctx); err != nil {
		return data, fmt.Errorf("load icon overrides: %w", err)
	}

	logger.L().Info("survey_loaded",
		"source", "postgres",
		"panoramas", len(data.Panoramas),
		"sidewalks", len(data.Sidewalks),
		"entrances", len(data.Entrances),
		"icons", len(data.IconOverrides),
	)
	return data, nil
}

func (s *SQLSource) points(ctx context.Context, query string) ([]model.Point, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		var p model.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLSource) entrances(ctx context.Context) ([]model.Entrance, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT name, lat, lng FROM survey_entrances ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Entrance
	for rows.Next() {
		var e model.Entrance
		if err := rows.Scan(&e.Name, &e.Lat, &e.Lng); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLSource) icons(ctx context.Context) (map[string]model.Point, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT name, lat, lng FROM survey_icon_overrides")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.Point)
	for rows.Next() {
		var name string
		var p model.Point
		if err := rows.Scan(&name, &p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, rows.Err()
}

// Import 把一份采集数据写入数据表 (清空后重写), 用于从文件迁移到数据库
func (s *SQLSource) Import(ctx context.Context, data model.SurveyData) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "TRUNCATE survey_panoramas, survey_sidewalks, survey_entrances, survey_icon_overrides RESTART IDENTITY"); err != nil {
		return err
	}
	for _, p := range data.Panoramas {
		if _, err := tx.ExecContext(ctx, "INSERT INTO survey_panoramas(lat, lng) VALUES($1, $2)", p.Lat, p.Lng); err != nil {
			return err
		}
	}
	for _, p := range data.Sidewalks {
		if _, err := tx.ExecContext(ctx, "INSERT INTO survey_sidewalks(lat, lng) VALUES($1, $2)", p.Lat, p.Lng); err != nil {
			return err
		}
	}
	for _, e := range data.Entrances {
		if _, err := tx.ExecContext(ctx, "INSERT INTO survey_entrances(name, lat, lng) VALUES($1, $2, $3)", e.Name, e.Lat, e.Lng); err != nil {
			return err
		}
	}
	for name, p := range data.IconOverrides {
		if _, err := tx.ExecContext(ctx, "INSERT INTO survey_icon_overrides(name, lat, lng) VALUES($1, $2, $3)", name, p.Lat, p.Lng); err != nil {
			return err
		}
	}
	return tx.Commit()
}
