// Package wmti implements the investment-personality assessment: a fixed
// five-question survey scored into stability/growth/risk axes and summarized
// as one of three types.
package wmti

// Question texts and options are a fixed table loaded with the process.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

type QuestionSet struct {
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
}

var questions = []Question{
	{
		ID:       1,
		Question: "What matters most to you when investing?",
		Options: []Option{
			{1, "Preserving my principal"},
			{2, "Stable returns"},
			{3, "Moderate risk and return"},
			{4, "Pursuing high returns"},
			{5, "The highest possible returns"},
		},
	},
	{
		ID:       2,
		Question: "How would you respond to an investment loss?",
		Options: []Option{
			{1, "Cut losses immediately and move to safe assets"},
			{2, "Assess the size of the loss and decide carefully"},
			{3, "Keep holding with a long-term view"},
			{4, "Buy more to lower my average cost"},
			{5, "Average down aggressively"},
		},
	},
	{
		ID:       3,
		Question: "What is your preferred investment horizon?",
		Options: []Option{
			{1, "Under 1 year (short term)"},
			{2, "1 to 3 years (medium term)"},
			{3, "3 to 5 years (medium-long term)"},
			{4, "5 to 10 years (long term)"},
			{5, "Over 10 years (very long term)"},
		},
	},
	{
		ID:       4,
		Question: "How much of your investable money would you commit?",
		Options: []Option{
			{1, "20% or less"},
			{2, "20 to 40%"},
			{3, "40 to 60%"},
			{4, "60 to 80%"},
			{5, "80% or more"},
		},
	},
	{
		ID:       5,
		Question: "How much investing experience do you have?",
		Options: []Option{
			{1, "No investing experience"},
			{2, "Mostly savings accounts"},
			{3, "Funds or ETFs"},
			{4, "Direct stock investing"},
			{5, "Derivatives"},
		},
	},
}

func Questions() QuestionSet {
	out := make([]Question, len(questions))
	copy(out, questions)
	return QuestionSet{Questions: out, TotalQuestions: len(out)}
}

const (
	TypeConservative = "WMTI-C"
	TypeModerate     = "WMTI-M"
	TypeAggressive   = "WMTI-A"
)

type Answer struct {
	QuestionID int `json:"question_id"`
	OptionID   int `json:"option_id"`
}

type Scores struct {
	Stability int `json:"stability_score"`
	Growth    int `json:"growth_score"`
	Risk      int `json:"risk_score"`
	Income    int `json:"income_score"`
}

// Score walks the answers and accumulates the per-axis weights. Higher option
// IDs read as more aggressive. Answers for unknown question IDs are ignored,
// mirroring the survey's fixed shape.
func Score(answers []Answer) (Scores, string) {
	var s Scores
	for _, a := range answers {
		opt := a.OptionID
		switch a.QuestionID {
		case 1, 2:
			s.Stability += (6 - opt) * 4
			s.Risk += opt * 4
		case 3:
			s.Growth += opt * 4
		case 4:
			s.Risk += opt * 4
		case 5:
			s.Risk += opt * 3
			s.Growth += opt * 2
		}
	}
	switch {
	case s.Risk <= 30:
		return s, TypeConservative
	case s.Risk <= 50:
		return s, TypeModerate
	default:
		return s, TypeAggressive
	}
}

func description(resultType string) string {
	switch resultType {
	case TypeConservative:
		return "You prefer stable investments and value preserving your principal above all. Low-risk assets are recommended."
	case TypeModerate:
		return "You pursue returns while accepting moderate risk. A balanced portfolio is recommended."
	case TypeAggressive:
		return "You actively take on risk for higher returns. An aggressive, growth-focused strategy is recommended."
	}
	return "Investment personality assessment result."
}

func recommendation(resultType string) string {
	switch resultType {
	case TypeConservative:
		return "Government bonds, investment-grade corporate bonds, dividend stocks, money market funds"
	case TypeModerate:
		return "ETFs, large-cap value stocks, dividend growth stocks, mixed bond funds"
	case TypeAggressive:
		return "Growth stocks, emerging market equities, sector ETFs, individual stocks"
	}
	return "Diversify across asset classes"
}
