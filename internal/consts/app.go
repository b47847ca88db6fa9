package consts

const (
	ApplicationName    = "Tiny Blog Server"
	ApplicationVersion = "1.0.0"
)

const (
	// SessionCookieName 保存登录令牌的 Cookie 名称
	SessionCookieName = "session"

	// FlashCookieName 一次性提示消息的 Cookie 名称
	FlashCookieName = "flash"
)

// gin.Context 中保存当前登录信息的键
const (
	ContextKeyUserID   = "id"
	ContextKeyUsername = "username"
	ContextKeySession  = "session"
)
