package services

import (
	"math"
	"sort"
	"time"

	"pillar-log-system/models"
)

// ScoreWeights define the XP value of each scoring rule. Kept in one table
// so the constants can change without touching call sites.
type ScoreWeights struct {
	Base             int
	ReadBonus        int // mind_read_flag
	PracticeBonus    int // skill_practice_flag
	MoneyFlatBonus   int // any money_value > 0
	MoneyScalePerLog int // × log10(money_value)
	MoneyScaleCap    int
	MoneySpeedBonus  int // money_speed ≥ 4
	DifficultyBonus  int // skill_difficulty ≥ 4
	UnhealthyPenalty int // body_unhealthy_flag
}

var DefaultScoreWeights = ScoreWeights{
	Base:             10,
	ReadBonus:        5,
	PracticeBonus:    5,
	MoneyFlatBonus:   20,
	MoneyScalePerLog: 5,
	MoneyScaleCap:    30,
	MoneySpeedBonus:  10,
	DifficultyBonus:  5,
	UnhealthyPenalty: 10,
}

// ScoreInput carries the gameplay fields of one day's log. It is the same
// shape for an unsaved preview and a persisted record, so both score
// identically.
type ScoreInput struct {
	BodyUnhealthyFlag bool    `json:"body_unhealthy_flag"`
	BodyEnergy        int     `json:"body_energy"`
	MindReadFlag      bool    `json:"mind_read_flag"`
	MindFocus         int     `json:"mind_focus"`
	MoneyValue        float64 `json:"money_value"`
	MoneySpeed        int     `json:"money_speed"`
	SkillPracticeFlag bool    `json:"skill_practice_flag"`
	SkillDifficulty   int     `json:"skill_difficulty"`
}

// CalculateScore is the pure scoring function: one day's log → non-negative
// integer XP. No side effects, deterministic for identical input.
func CalculateScore(in ScoreInput) int {
	return calculateScore(in, DefaultScoreWeights)
}

func calculateScore(in ScoreInput, w ScoreWeights) int {
	xp := w.Base

	if in.MindReadFlag {
		xp += w.ReadBonus
	}
	if in.SkillPracticeFlag {
		xp += w.PracticeBonus
	}

	if in.MoneyValue > 0 {
		xp += w.MoneyFlatBonus
		// Scale bonus: log10 of the value × 5, capped at 30. log10 goes
		// negative for fractional amounts, so the bonus is floored at 0.
		scale := int(math.Floor(math.Log10(in.MoneyValue) * float64(w.MoneyScalePerLog)))
		if scale > w.MoneyScaleCap {
			scale = w.MoneyScaleCap
		}
		if scale < 0 {
			scale = 0
		}
		xp += scale
	}

	if in.MoneySpeed >= 4 {
		xp += w.MoneySpeedBonus
	}
	if in.SkillDifficulty >= 4 {
		xp += w.DifficultyBonus
	}
	if in.BodyUnhealthyFlag {
		xp -= w.UnhealthyPenalty
	}

	if xp < 0 {
		xp = 0
	}
	return xp
}

// ScoreLog scores a persisted record.
func ScoreLog(l *models.DailyLog) int {
	return CalculateScore(ScoreInput{
		BodyUnhealthyFlag: l.BodyUnhealthyFlag,
		BodyEnergy:        l.BodyEnergy,
		MindReadFlag:      l.MindReadFlag,
		MindFocus:         l.MindFocus,
		MoneyValue:        l.MoneyValue,
		MoneySpeed:        l.MoneySpeed,
		SkillPracticeFlag: l.SkillPracticeFlag,
		SkillDifficulty:   l.SkillDifficulty,
	})
}

// RankTier maps a rank name to the minimum total XP that earns it.
type RankTier struct {
	Name  string
	MinXP int64
}

// RankTiers, lowest first. Operative covers [5000, 10000] inclusive;
// Vanguard starts strictly above 10000.
var RankTiers = []RankTier{
	{Name: "Recruit", MinXP: 0},
	{Name: "Operative", MinXP: 5000},
	{Name: "Vanguard", MinXP: 10001},
}

// RankFor is a step function of accumulated XP.
func RankFor(totalXP int64) string {
	for i := len(RankTiers) - 1; i >= 0; i-- {
		if totalXP >= RankTiers[i].MinXP {
			return RankTiers[i].Name
		}
	}
	return RankTiers[0].Name
}

// ComputeStreak counts consecutive calendar days ending at the most recent
// day that has a log. A missed day anywhere in between breaks the run.
func ComputeStreak(logs []models.DailyLog) int {
	if len(logs) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool, len(logs))
	days := make([]time.Time, 0, len(logs))
	for i := range logs {
		d := logs[i].Day()
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}
