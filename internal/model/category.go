package model

import "strings"

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategoryMindfulness  Category = "mindfulness"
	CategorySocial       Category = "social"
	CategoryCreativity   Category = "creativity"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryHealth,
		CategoryProductivity,
		CategoryLearning,
		CategoryMindfulness,
		CategorySocial,
		CategoryCreativity,
		CategoryOther,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryHealth, CategoryProductivity, CategoryLearning, CategoryMindfulness,
		CategorySocial, CategoryCreativity, CategoryOther:
		return true
	default:
		return false
	}
}

// Normalize maps unknown values to CategoryOther.
func (c Category) Normalize() Category {
	lower := Category(strings.ToLower(strings.TrimSpace(string(c))))
	if lower.IsValid() {
		return lower
	}
	return CategoryOther
}

func (c Category) Label() string {
	switch c.Normalize() {
	case CategoryHealth:
		return "Health & Fitness"
	case CategoryProductivity:
		return "Productivity"
	case CategoryLearning:
		return "Learning"
	case CategoryMindfulness:
		return "Mindfulness"
	case CategorySocial:
		return "Social"
	case CategoryCreativity:
		return "Creativity"
	default:
		return "Other"
	}
}

func (c Category) Icon() string {
	switch c.Normalize() {
	case CategoryHealth:
		return "🏃"
	case CategoryProductivity:
		return "📈"
	case CategoryLearning:
		return "📚"
	case CategoryMindfulness:
		return "🧘"
	case CategorySocial:
		return "👥"
	case CategoryCreativity:
		return "🎨"
	default:
		return "📝"
	}
}

// Color is a hex colour used by the chart renderers.
func (c Category) Color() string {
	switch c.Normalize() {
	case CategoryHealth:
		return "#ff6b6b"
	case CategoryProductivity:
		return "#4ecdc4"
	case CategoryLearning:
		return "#45b7d1"
	case CategoryMindfulness:
		return "#96ceb4"
	case CategorySocial:
		return "#feca57"
	case CategoryCreativity:
		return "#ff9ff3"
	default:
		return "#54a0ff"
	}
}
