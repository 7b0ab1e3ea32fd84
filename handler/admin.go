package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"office-navigator/admin"
	"office-navigator/logger"
	"office-navigator/metrics"
	"office-navigator/model"
	"office-navigator/store"
)

// Drafts 后台草稿 (应在 main 中初始化)
var Drafts store.DraftStore

// draftMu 串行化草稿的读-改-写
var draftMu sync.Mutex

// workingDirectory 后台正在编辑的目录: 有草稿时为草稿, 否则为已发布目录
func workingDirectory(ctx context.Context) (dir model.Directory, isDraft bool, err error) {
	if Drafts == nil {
		return dir, false, errors.New("draft store not configured")
	}
	dir, err = Drafts.Get(ctx)
	if err == nil {
		return dir, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return dir, false, err
	}
	dir, err = loadDirectory(ctx)
	return dir, false, err
}

// editDraft 在草稿上执行一次修改并保存
func editDraft(c *gin.Context, edit func(dir *model.Directory) (int, any, error)) {
	draftMu.Lock()
	defer draftMu.Unlock()

	ctx := c.Request.Context()
	dir, _, err := workingDirectory(ctx)
	if err != nil {
		logger.L().Error("draft_load_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取草稿失败"})
		return
	}

	status, body, err := edit(&dir)
	if errors.Is(err, admin.ErrOfficeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "办公室不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Drafts.Put(ctx, dir); err != nil {
		logger.L().Error("draft_save_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存草稿失败"})
		return
	}
	logger.L().Info("draft_edited", "user", c.GetString("username"), "route", c.FullPath(), "offices", len(dir.Offices))
	c.JSON(status, body)
}

func officeIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("无效的办公室序号: %s", c.Param("index"))
	}
	return i, nil
}

// GetAdminDirectory 返回后台正在编辑的目录
func GetAdminDirectory(c *gin.Context) {
	dir, isDraft, err := workingDirectory(c.Request.Context())
	if err != nil {
		logger.L().Error("draft_load_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取草稿失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"draft":     isDraft,
		"directory": dir,
		"errors":    admin.Validate(dir),
	})
}

// UpdateBuilding 修改建筑中心
func UpdateBuilding(c *gin.Context) {
	var req admin.BuildingEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	editDraft(c, func(dir *model.Directory) (int, any, error) {
		admin.UpdateBuilding(dir, req)
		return http.StatusOK, dir.BuildingCenter, nil
	})
}

// CreateOffice 在建筑中心新建办公室, 请求体可选地带上初始字段
func CreateOffice(c *gin.Context) {
	var req admin.OfficeEdit
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
			return
		}
	}
	editDraft(c, func(dir *model.Directory) (int, any, error) {
		i := admin.AddOffice(dir)
		office, err := admin.UpdateOffice(dir, i, req)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, gin.H{"index": i, "office": office}, nil
	})
}

// UpdateOffice 修改办公室的名称、位置或描述
func UpdateOffice(c *gin.Context) {
	i, err := officeIndex(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req admin.OfficeEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	editDraft(c, func(dir *model.Directory) (int, any, error) {
		office, err := admin.UpdateOffice(dir, i, req)
		return http.StatusOK, office, err
	})
}

// DeleteOffice 删除办公室
func DeleteOffice(c *gin.Context) {
	i, err := officeIndex(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	editDraft(c, func(dir *model.Directory) (int, any, error) {
		removed, err := admin.RemoveOffice(dir, i)
		return http.StatusOK, gin.H{"removed": removed.Name, "count": len(dir.Offices)}, err
	})
}

// Publish 校验草稿并写入已发布目录
func Publish(c *gin.Context) {
	draftMu.Lock()
	defer draftMu.Unlock()

	if Directory == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目录服务未配置"})
		return
	}
	ctx := c.Request.Context()
	dir, isDraft, err := workingDirectory(ctx)
	if err != nil {
		logger.L().Error("draft_load_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取草稿失败"})
		return
	}
	if !isDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有待发布的修改"})
		return
	}
	if errs := admin.Validate(dir); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "目录校验失败", "errors": errs})
		return
	}

	if err := Directory.Save(ctx, dir); err != nil {
		logger.L().Error("directory_publish_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发布失败"})
		return
	}
	if err := Drafts.Delete(ctx); err != nil {
		logger.L().Warn("draft_delete_error", "err", err)
	}
	metrics.DirectoryPublishTotal.Inc()
	logger.L().Info("directory_published", "user", c.GetString("username"), "offices", len(dir.Offices))
	c.JSON(http.StatusOK, gin.H{"message": "发布成功", "count": len(dir.Offices)})
}

// DiscardDraft 放弃草稿, 回到已发布目录
func DiscardDraft(c *gin.Context) {
	draftMu.Lock()
	defer draftMu.Unlock()

	if Drafts == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "草稿服务未配置"})
		return
	}
	if err := Drafts.Delete(c.Request.Context()); err != nil {
		logger.L().Error("draft_delete_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除草稿失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "草稿已清除"})
}

// ExportDirectory 下载正在编辑的目录 (offices-<时间>.json)
func ExportDirectory(c *gin.Context) {
	dir, _, err := workingDirectory(c.Request.Context())
	if err != nil {
		logger.L().Error("draft_load_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取草稿失败"})
		return
	}
	if errs := admin.Validate(dir); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "目录校验失败", "errors": errs})
		return
	}

	b, err := json.MarshalIndent(dir, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败"})
		return
	}
	name := "offices-" + time.Now().UTC().Format("2006-01-02-15-04-05") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json", b)
}
