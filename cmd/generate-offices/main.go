// generate-offices 从实地采集数据生成办公室导航记录 (全景锚点 + 步行路径),
// 追加到已有的 offices.json 之后写回
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"office-navigator/admin"
	"office-navigator/algo"
	"office-navigator/config"
	"office-navigator/db"
	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/store"
	"office-navigator/survey"
)

type options struct {
	panoramas  string
	sidewalks  string
	entrances  string
	icons      string
	surveyDSN  string
	importData bool
	out        string
	existing   string
	publish    bool

	cfg config.Config // -publish 使用的数据库配置
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("generate-offices", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.panoramas, "panoramas", "data/panorama_gps_locations.txt", "panorama GPS points, one \"(lat, lng)\" per line")
	fs.StringVar(&o.sidewalks, "sidewalks", "data/sidewalk_locations.txt", "sidewalk points, one \"lat, lng\" per line")
	fs.StringVar(&o.entrances, "entrances", "data/new_office_building_entrances", "entrances, one \"Office Name lat, lng\" per line")
	fs.StringVar(&o.icons, "icons", "data/new_office_locations.json", "manual icon locations (optional, empty to skip)")
	fs.StringVar(&o.surveyDSN, "survey-dsn", "", "read survey tables from PostgreSQL instead of files")
	fs.BoolVar(&o.importData, "import", false, "with -survey-dsn: first copy the survey files into the database")
	fs.StringVar(&o.out, "out", "offices.json", "output directory file")
	fs.StringVar(&o.existing, "existing", "", "existing directory to append to (defaults to -out)")
	fs.BoolVar(&o.publish, "publish", false, "also replace the directory stored in PostgreSQL (DB_* env)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.existing == "" {
		o.existing = o.out
	}
	if o.importData && o.surveyDSN == "" {
		return o, errors.New("-import requires -survey-dsn")
	}
	return o, nil
}

// setup 先加载 .env, LOG_* 才会生效
func setup() (config.Config, *slog.Logger) {
	cfg := config.Load()
	return cfg, logger.Setup()
}

func main() {
	cfg, l := setup()
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		l.Error("flags_error", "err", err)
		os.Exit(2)
	}
	o.cfg = cfg
	if err := run(context.Background(), o); err != nil {
		l.Error("generate_failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	l := logger.L()
	files := survey.FileSource{
		PanoramaPath: o.panoramas,
		SidewalkPath: o.sidewalks,
		EntrancePath: o.entrances,
		IconPath:     o.icons,
	}

	var src survey.Source = files
	if o.surveyDSN != "" {
		sq, err := survey.OpenSQLSource(o.surveyDSN)
		if err != nil {
			return fmt.Errorf("open survey database: %w", err)
		}
		defer sq.Close()
		if o.importData {
			if err := importSurvey(ctx, files, sq); err != nil {
				return err
			}
		}
		src = sq
	}

	data, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load survey: %w", err)
	}
	offices, err := algo.GenerateOffices(data)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	l.Info("offices_generated", "count", len(offices))

	existing, err := loadExisting(ctx, o.existing)
	if err != nil {
		return err
	}
	merged := algo.MergeDirectory(existing, offices)

	// 重名会让数据库导入失败, 在任何写入之前拒绝
	if err := admin.Check(merged); err != nil {
		return fmt.Errorf("merged directory from %s: %w", o.existing, err)
	}

	// 先发布再写文件, 发布失败时文件保持原样
	if o.publish {
		if err := publish(ctx, o.cfg, merged); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	if err := store.NewFileStore(o.out).Save(ctx, merged); err != nil {
		return err
	}

	l.Info("generate_done",
		"out", o.out,
		"generated", len(offices),
		"total", len(merged.Offices),
		"building", merged.BuildingCenter.Name,
	)
	return nil
}

// loadExisting 读取已有目录
//
// 文件不存在或不是合法 JSON 时视为没有已有目录;
// JSON 合法但字段类型不符时返回错误, 不覆盖手工维护的内容。
func loadExisting(ctx context.Context, path string) (*model.Directory, error) {
	dir, err := store.NewFileStore(path).Load(ctx)
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.L().Info("existing_directory_missing", "path", path)
		return nil, nil
	case errors.As(err, &typeErr):
		return nil, fmt.Errorf("existing directory: %w", err)
	case err != nil:
		logger.L().Warn("existing_directory_unreadable", "path", path, "err", err)
		return nil, nil
	}
	logger.L().Info("existing_directory_loaded", "path", path, "offices", len(dir.Offices))
	return &dir, nil
}

func importSurvey(ctx context.Context, files survey.FileSource, sq *survey.SQLSource) error {
	data, err := files.Load(ctx)
	if err != nil {
		return fmt.Errorf("load survey files: %w", err)
	}
	if err := sq.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("create survey tables: %w", err)
	}
	if err := sq.Import(ctx, data); err != nil {
		return fmt.Errorf("import survey: %w", err)
	}
	logger.L().Info("survey_imported", "entrances", len(data.Entrances))
	return nil
}

func publish(ctx context.Context, cfg config.Config, dir model.Directory) error {
	// 目录由本程序写入, 不需要 InitDB 的首次导入
	cfg.DirectoryPath = ""
	if err := db.InitDB(cfg); err != nil {
		return err
	}
	return db.NewRepository(db.DB).Save(ctx, dir)
}
