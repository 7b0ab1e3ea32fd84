package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"office-navigator/logger"
	"office-navigator/model"
	"office-navigator/store"
	"office-navigator/utils"
)

// JWT 密钥, 由 main 通过 SetJWTSecret 从配置设置; 为空时后台关闭
var jwtSecret []byte

// SetJWTSecret 设置签名密钥
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// AdminEnabled 是否配置了签名密钥
func AdminEnabled() bool {
	return len(jwtSecret) > 0
}

// UserFinder 按用户名查找管理员
type UserFinder interface {
	FindUser(ctx context.Context, username string) (*model.User, error)
}

// Users 管理员账号来源 (应在 main 中初始化)
var Users UserFinder

// StaticUsers 不使用数据库时的账号表
type StaticUsers map[string]*model.User

func (s StaticUsers) FindUser(ctx context.Context, username string) (*model.User, error) {
	u, ok := s[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

// NewStaticUsers 用明文密码创建单个管理员, 密码为空时没有任何账号
func NewStaticUsers(username, password string) (StaticUsers, error) {
	users := StaticUsers{}
	if username == "" || password == "" {
		return users, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	users[username] = &model.User{Username: username, Password: hash}
	return users, nil
}

// Claims JWT 载荷
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Login 处理管理员登录
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if !AdminEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "后台未启用"})
		return
	}
	if Users == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "账号服务未配置"})
		return
	}

	// 查找用户
	user, err := Users.FindUser(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.L().Error("login_lookup_error", "username", req.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
		return
	}
	// 验证密码
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		logger.L().Warn("login_failed", "username", req.Username, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码错误"})
		return
	}

	tokenString, err := issueToken(user, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 Token 失败"})
		return
	}

	logger.L().Info("login_ok", "username", user.Username)
	c.JSON(http.StatusOK, LoginResponse{
		Token:    tokenString,
		Username: user.Username,
		Message:  "登录成功",
	})
}

func issueToken(user *model.User, now time.Time) (string, error) {
	claims := &Claims{
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "office-navigator",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// AuthMiddleware JWT 认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AdminEnabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "后台未启用"})
			c.Abort()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未提供 Token"})
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的 Token"})
			c.Abort()
			return
		}

		// 账号必须仍然存在
		if Users == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "账号服务未配置"})
			c.Abort()
			return
		}
		user, err := Users.FindUser(c.Request.Context(), claims.Username)
		if errors.Is(err, store.ErrNotFound) || (err == nil && user == nil) {
			logger.L().Warn("auth_unknown_user", "username", claims.Username, "ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的 Token"})
			c.Abort()
			return
		}
		if err != nil {
			logger.L().Error("auth_lookup_error", "username", claims.Username, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
