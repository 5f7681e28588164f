package models

// Language is a supported content language.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

// Languages lists the supported languages in display order.
var Languages = []Language{
	{Code: "ko", Name: "한국어", Native: "한국어"},
	{Code: "en", Name: "English", Native: "English"},
	{Code: "ja", Name: "日本語", Native: "日本語"},
	{Code: "zh", Name: "中文", Native: "中文"},
	{Code: "ru", Name: "Русский", Native: "Русский"},
	{Code: "es", Name: "Español", Native: "Español"},
	{Code: "pt", Name: "Português", Native: "Português"},
	{Code: "ar", Name: "العربية", Native: "العربية"},
	{Code: "vi", Name: "Tiếng Việt", Native: "Tiếng Việt"},
	{Code: "id", Name: "Bahasa Indonesia", Native: "Bahasa Indonesia"},
	{Code: "fr", Name: "Français", Native: "Français"},
	{Code: "hi", Name: "हिन्दी", Native: "हिन्दी"},
	{Code: "ms", Name: "Bahasa Melayu", Native: "Bahasa Melayu"},
}

// OriginLanguages are the languages content is written in.
var OriginLanguages = []string{"ko", "en"}

// RequiredLanguages must be translated for every tool.
var RequiredLanguages = []string{"ja", "zh", "ru", "es", "pt", "ar", "ms", "id"}

// LanguageCodes returns the supported language codes in display order.
func LanguageCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}

// IsLanguage reports whether code is a supported language.
func IsLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Category is an entry of the static category table.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryAll is the pseudo category matching every tool.
const CategoryAll = "all"

// Categories is the category table; its index is the display order.
// The first entry is the "all" pseudo category.
var Categories = []Category{
	{ID: CategoryAll, Name: "전체", Icon: "🌐", Color: "#6366f1"},
	{ID: "text-generation", Name: "텍스트 생성", Icon: "📝", Color: "#8b5cf6"},
	{ID: "image-generation", Name: "이미지 생성", Icon: "🎨", Color: "#ec4899"},
	{ID: "audio", Name: "음성/오디오", Icon: "🎵", Color: "#f59e0b"},
	{ID: "video", Name: "비디오 제작", Icon: "🎬", Color: "#ef4444"},
	{ID: "code", Name: "코드 작성", Icon: "💻", Color: "#10b981"},
	{ID: "data-analysis", Name: "데이터 분석", Icon: "📊", Color: "#3b82f6"},
	{ID: "productivity", Name: "생산성", Icon: "⚡", Color: "#f97316"},
	{ID: "marketing", Name: "마케팅", Icon: "📢", Color: "#06b6d4"},
	{ID: "education", Name: "교육", Icon: "🎓", Color: "#84cc16"},
	{ID: "design", Name: "디자인", Icon: "✨", Color: "#a855f7"},
	{ID: "business", Name: "비즈니스", Icon: "💼", Color: "#14b8a6"},
	{ID: "other", Name: "기타", Icon: "🔮", Color: "#64748b"},
}

// CategoryByID looks up a category of the static table.
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// BannerSpot is a placement a banner can be shown in.
type BannerSpot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var BannerSpots = []BannerSpot{
	{ID: "web_top", Name: "웹 상단", Icon: "🖥️", Description: "웹사이트 페이지 최상단"},
	{ID: "web_middle", Name: "웹 중단", Icon: "🖥️", Description: "웹사이트 페이지 중단"},
	{ID: "web_bottom", Name: "웹 하단", Icon: "🖥️", Description: "웹사이트 페이지 하단"},
	{ID: "mobile_top", Name: "모바일 상단", Icon: "📱", Description: "모바일 페이지 최상단"},
	{ID: "mobile_middle", Name: "모바일 중단", Icon: "📱", Description: "모바일 페이지 중단"},
	{ID: "mobile_bottom", Name: "모바일 하단", Icon: "📱", Description: "모바일 페이지 하단"},
}

// Banner display states.
const (
	BannerLive      = "live"
	BannerOff       = "off"
	BannerScheduled = "scheduled"
)

// DefaultBannerPriority sorts banners without a priority last.
const DefaultBannerPriority = 999

// Review states shared by recipes and applications.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusActive   = "active"
)

// Translation document types.
const (
	TranslationMenu     = "menu"
	TranslationToolInfo = "tool_info"
	TranslationOther    = "other"
)

// TranslationTypes maps a translation type to its display label.
var TranslationTypes = map[string]string{
	TranslationMenu:     "메뉴",
	TranslationToolInfo: "도구 정보",
	TranslationOther:    "기타",
}

// MenuTranslations holds the admin menu labels written by the menu seed,
// keyed by page.
var MenuTranslations = map[string]map[string]string{
	"dashboard":     {"ko": "대시보드", "en": "Dashboard"},
	"ai_tools":      {"ko": "AI 도구 관리", "en": "AI Tools Management"},
	"users":         {"ko": "사용자 관리", "en": "User Management"},
	"recipes":       {"ko": "AI 레시피 관리", "en": "AI Recipe Management"},
	"translations":  {"ko": "다국어 관리", "en": "Translation Management"},
	"categories":    {"ko": "카테고리 관리", "en": "Category Management"},
	"applications":  {"ko": "등록 신청 관리", "en": "Registration Management"},
	"paid_services": {"ko": "유료 서비스 관리", "en": "Paid Service Management"},
	"settings":      {"ko": "설정", "en": "Settings"},
}
