package i18n

// LocaleNames maps locale codes to their self-described display names.
var LocaleNames = map[string]string{
	"en": "English",
	"zh": "中文",
}

// bundles holds flattened translation tables: "namespace.key" -> message.
// Keep en and zh in step; en is the fallback for missing keys.
var bundles = map[string]map[string]string{
	"en": {
		"common.appName":      "Fullstack Starter",
		"common.loading":      "Loading...",
		"common.save":         "Save",
		"common.cancel":       "Cancel",
		"common.language":     "Language",
		"common.theme":        "Theme",
		"common.themeLight":   "Light",
		"common.themeDark":    "Dark",
		"common.themeSystem":  "System",

		"auth.login":            "Log in",
		"auth.register":         "Sign up",
		"auth.logout":           "Log out",
		"auth.email":            "Email",
		"auth.password":         "Password",
		"auth.name":             "Name",
		"auth.loginTitle":       "Welcome back",
		"auth.registerTitle":    "Create your account",
		"auth.continueWith":     "Continue with {provider}",
		"auth.noAccount":        "Don't have an account?",
		"auth.haveAccount":      "Already have an account?",
		"auth.invalidCredentials": "Invalid email or password",

		"home.title":       "Build something great",
		"home.subtitle":    "A fullstack starter with auth, sessions and i18n wired in.",
		"home.getStarted":  "Get started",
		"home.learnMore":   "Learn more",
		"home.featuresAuth":     "Email, password and social login out of the box.",
		"home.featuresSessions": "Server-side sessions with automatic refresh.",
		"home.featuresI18n":     "Internationalization and theme toggling built in.",
	},
	"zh": {
		"common.appName":      "全栈启动模板",
		"common.loading":      "加载中...",
		"common.save":         "保存",
		"common.cancel":       "取消",
		"common.language":     "语言",
		"common.theme":        "主题",
		"common.themeLight":   "浅色",
		"common.themeDark":    "深色",
		"common.themeSystem":  "跟随系统",

		"auth.login":            "登录",
		"auth.register":         "注册",
		"auth.logout":           "退出登录",
		"auth.email":            "邮箱",
		"auth.password":         "密码",
		"auth.name":             "姓名",
		"auth.loginTitle":       "欢迎回来",
		"auth.registerTitle":    "创建您的账户",
		"auth.continueWith":     "使用 {provider} 继续",
		"auth.noAccount":        "还没有账户？",
		"auth.haveAccount":      "已有账户？",
		"auth.invalidCredentials": "邮箱或密码错误",

		"home.title":       "构建伟大的产品",
		"home.subtitle":    "内置认证、会话和国际化的全栈启动模板。",
		"home.getStarted":  "开始使用",
		"home.learnMore":   "了解更多",
		"home.featuresAuth":     "开箱即用的邮箱密码与社交登录。",
		"home.featuresSessions": "自动续期的服务端会话。",
		"home.featuresI18n":     "内置国际化与主题切换。",
	},
}
