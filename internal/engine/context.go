package engine

import (
	"github.com/ericogr/monster-arena/internal/game"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	st         *game.BattleState
	side       game.Side
	lines      []string
	passiveLog []string
	results    []game.BattleResult
	damaged    []string
}

func newTurnContext(st *game.BattleState, side game.Side) *turnContext {
	return &turnContext{st: st, side: side, lines: make([]string, 0, 8)}
}

// add appends a line to both the battle log and this turn's log.
func (tc *turnContext) add(msg string) {
	tc.lines = append(tc.lines, msg)
	tc.st.Log = append(tc.st.Log, msg)
}

func (tc *turnContext) addPassive(msgs []string) {
	for _, m := range msgs {
		tc.add(m)
		tc.passiveLog = append(tc.passiveLog, m)
	}
}

// markDamaged remembers a damaged monster once, in hit order.
func (tc *turnContext) markDamaged(id string) {
	for _, d := range tc.damaged {
		if d == id {
			return
		}
	}
	tc.damaged = append(tc.damaged, id)
}

// recordDamage keeps the running statistics from the player's point of view.
func (tc *turnContext) recordDamage(targetSide game.Side, amount int) {
	if targetSide == game.SideAI {
		tc.st.Stats.DamageDealt += amount
	} else {
		tc.st.Stats.DamageTaken += amount
	}
}

func (tc *turnContext) teams() Teams {
	return Teams{
		Player:       tc.st.PlayerTeam,
		AI:           tc.st.AITeam,
		PlayerActive: tc.st.PlayerActive,
		AIActive:     tc.st.AIActive,
	}
}

// mergePassives folds a passive outcome back into the battle state and assigns
// identifiers to freshly created effects.
func (tc *turnContext) mergePassives(out PassiveOutcome) {
	tc.st.PlayerTeam = out.Teams.Player
	tc.st.AITeam = out.Teams.AI
	for i := range out.Effects {
		if out.Effects[i].ID == 0 {
			tc.st.NextEffectID++
			out.Effects[i].ID = tc.st.NextEffectID
		}
	}
	tc.st.Effects = out.Effects
	tc.addPassive(out.Log)
}
