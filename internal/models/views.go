package models

// CategoryView is a category with its tool count, as listed by the admin.
type CategoryView struct {
	Category
	NameKr    string `json:"nameKr"`
	NameEn    string `json:"nameEn"`
	ToolCount int    `json:"toolCount"`
	Order     int    `json:"order"`
}

// Dashboard summarizes the directory.
type Dashboard struct {
	Tools         int            `json:"tools"`
	Users         int            `json:"users"`
	Recipes       int            `json:"recipes"`
	PublicRecipes int            `json:"publicRecipes"`
	ActiveTools   int            `json:"activeTools"`
	VerifiedTools int            `json:"verifiedTools"`
	FeaturedTools int            `json:"featuredTools"`
	RecentTools   int            `json:"recentTools"`
	RecentUsers   int            `json:"recentUsers"`
	ToolsByStatus map[string]int `json:"toolsByStatus"`
	Categories    map[string]int `json:"categories"`
	// Degraded lists the entities that could not be read.
	Degraded []string `json:"degraded,omitempty"`
}

// SeedReport counts the documents written by the menu seed.
type SeedReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
