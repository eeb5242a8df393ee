package rewards

// Achievement definitions are a fixed table loaded with the process; only
// per-user progress lives in the store.
type Achievement struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ExpReward   int    `json:"exp_reward"`
	// MaxProgress 0 means the achievement unlocks on any report.
	MaxProgress int `json:"max_progress"`
}

const (
	AchievementFirstTrade  = "FIRST_TRADE"
	AchievementTradeTen    = "TRADE_10"
	AchievementDiversify   = "DIVERSIFY_5"
	AchievementProfitTen   = "PROFIT_10"
	AchievementProfitLarge = "PROFIT_1M"
)

var achievementDefs = []Achievement{
	{Code: AchievementFirstTrade, Name: "First Trade", Description: "Complete your first stock trade", Category: "TRADING", ExpReward: 100, MaxProgress: 1},
	{Code: AchievementTradeTen, Name: "Active Trader", Description: "Complete ten trades", Category: "TRADING", ExpReward: 150, MaxProgress: 10},
	{Code: AchievementDiversify, Name: "Diversified Portfolio", Description: "Hold five or more different stocks", Category: "PORTFOLIO", ExpReward: 200, MaxProgress: 5},
	{Code: AchievementProfitTen, Name: "In The Green", Description: "Reach a total return of 10%", Category: "PROFIT", ExpReward: 500},
	{Code: AchievementProfitLarge, Name: "Big Win", Description: "Earn 1,000,000 on a single trade", Category: "PROFIT", ExpReward: 1000},
}

var achievementsByCode = func() map[string]Achievement {
	m := make(map[string]Achievement, len(achievementDefs))
	for _, a := range achievementDefs {
		m[a.Code] = a
	}
	return m
}()

func Achievements() []Achievement {
	out := make([]Achievement, len(achievementDefs))
	copy(out, achievementDefs)
	return out
}

func AchievementByCode(code string) (Achievement, bool) {
	a, ok := achievementsByCode[code]
	return a, ok
}
