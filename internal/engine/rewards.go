package engine

import "github.com/ericogr/monster-arena/internal/game"

// RewardTable holds the configured payouts of a finished battle.
type RewardTable struct {
	VictoryRankXP int `json:"victory_rank_xp" yaml:"victory_rank_xp"`
	DefeatRankXP  int `json:"defeat_rank_xp" yaml:"defeat_rank_xp"`
	ForfeitRankXP int `json:"forfeit_rank_xp" yaml:"forfeit_rank_xp"`
	VictoryGold   int `json:"victory_gold" yaml:"victory_gold"`
	// GoldPerLevel is added per level of every defeated opponent.
	GoldPerLevel int `json:"gold_per_level" yaml:"gold_per_level"`
}

// DefaultRewards is used when the config file has no rewards section.
var DefaultRewards = RewardTable{
	VictoryRankXP: 25,
	DefeatRankXP:  -10,
	ForfeitRankXP: -15,
	VictoryGold:   50,
	GoldPerLevel:  2,
}

// EndResult builds the result persisted for a battle in a terminal state.
// Abandoned battles carry no rewards.
func EndResult(state game.BattleState, table RewardTable) game.BattleEndResult {
	res := game.BattleEndResult{
		Status:     state.Status,
		Forfeited:  state.ForfeitedBy != "",
		Statistics: state.Stats,
	}
	switch state.Status {
	case game.StatusVictory:
		res.Winner = game.SidePlayer
		gold := table.VictoryGold
		for _, m := range state.AITeam {
			if m.Fainted() {
				gold += table.GoldPerLevel * m.Level
			}
		}
		res.Rewards = game.Rewards{RankXP: table.VictoryRankXP, Gold: &gold}
	case game.StatusDefeat:
		res.Winner = game.SideAI
		res.Rewards.RankXP = table.DefeatRankXP
		if state.ForfeitedBy == game.SidePlayer {
			res.Rewards.RankXP = table.ForfeitRankXP
		}
	}
	return res
}
