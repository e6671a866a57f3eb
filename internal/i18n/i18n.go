package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	DefaultLocale = LocaleZhCN
)

var (
	supportedTags = []language.Tag{
		language.SimplifiedChinese,
		language.AmericanEnglish,
	}
	supportedLocales = []string{LocaleZhCN, LocaleEnUS}
	matcher          = language.NewMatcher(supportedTags)
)

// ResolveLocale 根据 lang 查询参数或 Accept-Language 解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if raw := strings.TrimSpace(c.Query("lang")); raw != "" {
		return MatchLocale(raw)
	}
	return MatchLocale(c.GetHeader("Accept-Language"))
}

// MatchLocale 将语言偏好匹配到受支持的语言
func MatchLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[index]
}

// T 获取翻译文本，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 获取翻译模板并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
