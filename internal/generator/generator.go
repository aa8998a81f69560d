// Package generator builds deterministic synthetic analytics data.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/menureport/internal/model"
)

var menuItems = []struct {
	name     string
	category string
}{
	{"Margherita Pizza", "Mains"},
	{"Truffle Fries", "Sides"},
	{"Caesar Salad", "Starters"},
	{"Flat White", "Drinks"},
	{"Beef Burger", "Mains"},
	{"Tiramisu", "Desserts"},
	{"Tomato Soup", "Starters"},
	{"Iced Latte", "Drinks"},
	{"Mushroom Risotto", "Mains"},
	{"Cheesecake", "Desserts"},
	{"Garlic Bread", "Sides"},
	{"Lemonade", "Drinks"},
}

var categories = []string{"Starters", "Mains", "Sides", "Desserts", "Drinks"}

var devices = []string{"Mobile", "Desktop", "Tablet"}

// Generator produces analytics data from a seeded source, so the same seed
// always yields the same data.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Analytics builds a full data set covering days days ending at end.
// Daily views fall in 20..119 and scans in 10..59.
func (g *Generator) Analytics(days int, end time.Time) model.AnalyticsData {
	if days < 0 {
		days = 0
	}
	data := model.AnalyticsData{
		ViewsSeries: g.series(days, end),
	}
	for _, p := range data.ViewsSeries {
		data.ViewsTotal += p.Views
		data.ScansTotal += p.Scans
	}
	data.ViewsChangePct = g.change()
	data.ScansChangePct = g.change()
	data.PopularItems = g.popularItems()
	data.CategoryPerformance = g.categoryStats(data.PopularItems)
	data.TimeDistribution = g.hours()
	data.DeviceBreakdown = g.devices(data.ScansTotal)
	return data
}

func (g *Generator) series(days int, end time.Time) []model.DailyViews {
	start := end.AddDate(0, 0, -(days - 1))
	out := make([]model.DailyViews, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, model.DailyViews{
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Views: 20 + g.rnd.Intn(100),
			Scans: 10 + g.rnd.Intn(50),
		})
	}
	return out
}

// change returns a percentage in [-20, 30) rounded to one decimal.
func (g *Generator) change() float64 {
	return round1(g.rnd.Float64()*50 - 20)
}

func (g *Generator) popularItems() []model.PopularItem {
	items := make([]model.PopularItem, 0, len(menuItems))
	views := 400 + g.rnd.Intn(900)
	for _, m := range menuItems {
		items = append(items, model.PopularItem{
			Name:      m.name,
			Category:  m.category,
			Views:     views,
			ChangePct: g.change(),
		})
		// Ranked list: each item trails the previous one.
		views -= 10 + g.rnd.Intn(60)
		if views < 0 {
			views = 0
		}
	}
	return items
}

func (g *Generator) categoryStats(items []model.PopularItem) []model.CategoryStat {
	stats := make([]model.CategoryStat, 0, len(categories))
	for _, name := range categories {
		cs := model.CategoryStat{Name: name}
		for _, it := range items {
			if it.Category == name {
				cs.Views += it.Views
				cs.ItemCount++
			}
		}
		if g.rnd.Intn(4) > 0 {
			rating := round1(3 + g.rnd.Float64()*2)
			cs.AvgRating = &rating
		}
		stats = append(stats, cs)
	}
	return stats
}

func (g *Generator) hours() []model.HourlyViews {
	out := make([]model.HourlyViews, 0, 24)
	for h := 0; h < 24; h++ {
		// Lunch and dinner peaks.
		peak := math.Exp(-math.Pow(float64(h)-12.5, 2)/4) + math.Exp(-math.Pow(float64(h)-19, 2)/5)
		out = append(out, model.HourlyViews{
			Hour:  fmt.Sprintf("%02d:00", h),
			Views: int(peak*120) + g.rnd.Intn(10),
		})
	}
	return out
}

func (g *Generator) devices(total int) []model.DeviceStat {
	weights := []float64{0.6 + g.rnd.Float64()*0.15, 0.15 + g.rnd.Float64()*0.1, 0}
	weights[2] = 1 - weights[0] - weights[1]
	out := make([]model.DeviceStat, 0, len(devices))
	for i, name := range devices {
		out = append(out, model.DeviceStat{
			Device:     name,
			Count:      int(math.Round(weights[i] * float64(total))),
			Percentage: round1(weights[i] * 100),
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
