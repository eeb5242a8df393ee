package rewards

// The level curve is triangular: reaching level L requires the cumulative
// experience 100*(1+2+...+(L-1)). Level 1 starts at 0.

// LevelForExperience derives the level from total experience by walking the
// incremental thresholds. Negative experience never occurs (AddExperience
// rejects negative amounts) but clamps to level 1 here.
func LevelForExperience(exp int) int {
	if exp < 0 {
		return 1
	}
	level := 1
	required := 0
	for exp >= required {
		required += level * 100
		if exp >= required {
			level++
		}
	}
	return level
}

// RequiredExpForLevel is the cumulative experience at which the next level
// after the given one is reached.
func RequiredExpForLevel(level int) int {
	required := 0
	for i := 1; i <= level; i++ {
		required += i * 100
	}
	return required
}

type Tier struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	MinExp int    `json:"min_exp"`
}

// Display-only tier table; thresholds are fixed labels, not derived from the
// level curve.
var levelTiers = []Tier{
	{Level: 1, Title: "Beginner", MinExp: 0},
	{Level: 5, Title: "Novice Investor", MinExp: 1000},
	{Level: 10, Title: "Intermediate Investor", MinExp: 5000},
	{Level: 20, Title: "Skilled Investor", MinExp: 15000},
	{Level: 30, Title: "Professional Investor", MinExp: 35000},
	{Level: 50, Title: "Master", MinExp: 75000},
}

func LevelTiers() []Tier {
	out := make([]Tier, len(levelTiers))
	copy(out, levelTiers)
	return out
}

func TitleForLevel(level int) string {
	title := levelTiers[0].Title
	for _, t := range levelTiers {
		if level >= t.Level {
			title = t.Title
		}
	}
	return title
}
