package engine

import (
	"strconv"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/game"
)

// TurnOutcome is the result of one processed turn. State is a new value; the
// state passed to RunTurn is never modified.
type TurnOutcome struct {
	State      game.BattleState    `json:"state"`
	Results    []game.BattleResult `json:"results"`
	PassiveLog []string            `json:"passive_log"`
	Log        []string            `json:"log"`
	Ended      bool                `json:"ended"`
}

// RunTurn is the main entry point for resolving a turn. It validates the
// action, then runs start-of-turn conditions, the action itself, passives,
// end-of-turn upkeep and win/loss evaluation, in that order.
//
// Every rejection happens before the first mutation and returns a
// battleerr.Error. FORFEIT is accepted from either side at any time while the
// battle is active and ends it immediately.
func RunTurn(state game.BattleState, side game.Side, action game.Action) (TurnOutcome, error) {
	if state.Status.Terminal() {
		return TurnOutcome{}, battleerr.TerminalState(battleerr.CodeBattleOver, "battle already ended in "+string(state.Status))
	}
	if action.Type != game.ActionForfeit && side != state.CurrentTurn {
		return TurnOutcome{}, battleerr.Validation(battleerr.CodeNotYourTurn, "it is not the "+string(side)+" side's turn")
	}
	plan, err := buildPlan(&state, side, action)
	if err != nil {
		return TurnOutcome{}, err
	}

	st := state.Clone()
	tc := newTurnContext(&st, side)
	turn := st.TurnCount
	var before []game.MonsterSnapshot
	if st.RecordHistory {
		before = snapshot(&st)
	}

	if plan.kind == game.ActionForfeit {
		tc.forfeit()
	} else {
		if skip := tc.applyStartOfTurn(); !skip {
			tc.executePlan(plan)
		}
		tc.runPassives()
		tc.endOfTurn()
		tc.evaluateOutcome()
	}

	if st.RecordHistory {
		st.History = append(st.History, game.TurnRecord{
			Turn:   turn,
			Side:   side,
			Action: action,
			Before: before,
			After:  snapshot(&st),
			Log:    append([]string(nil), tc.lines...),
		})
	}
	return TurnOutcome{
		State:      st,
		Results:    tc.results,
		PassiveLog: tc.passiveLog,
		Log:        tc.lines,
		Ended:      st.Status.Terminal(),
	}, nil
}

func (tc *turnContext) forfeit() {
	tc.st.ForfeitedBy = tc.side
	if tc.side == game.SidePlayer {
		tc.st.Status = game.StatusDefeat
	} else {
		tc.st.Status = game.StatusVictory
	}
	tc.add(sideLabel(tc.side) + " forfeits the battle.")
	tc.announce()
}

// runPassives fires HP-threshold passives for every monster damaged this turn,
// then the acting side's end-of-turn passives.
func (tc *turnContext) runPassives() {
	for _, id := range tc.damaged {
		tc.mergePassives(ApplyPassives(game.TriggerOnHPThreshold, tc.teams(), tc.st.Effects, tc.side, id))
	}
	tc.mergePassives(ApplyPassives(game.TriggerEndOfTurn, tc.teams(), tc.st.Effects, tc.side, ""))
}

func (tc *turnContext) endOfTurn() {
	decrementEffects(tc.st)
	tc.st.TurnCount++
	tc.st.Stats.TurnsPlayed++
	tc.st.CurrentTurn = tc.side.Opponent()
}

// evaluateOutcome ends the battle once a team has no able monster left. The
// acting side's opponent is checked first, so a side that wipes both teams in
// one turn wins.
func (tc *turnContext) evaluateOutcome() {
	winner := game.Side("")
	switch {
	case tc.st.Wiped(tc.side.Opponent()):
		winner = tc.side
	case tc.st.Wiped(tc.side):
		winner = tc.side.Opponent()
	default:
		return
	}
	if winner == game.SidePlayer {
		tc.st.Status = game.StatusVictory
	} else {
		tc.st.Status = game.StatusDefeat
	}
	tc.announce()
}

func (tc *turnContext) announce() {
	switch tc.st.Status {
	case game.StatusVictory:
		tc.add("Victory! The opposing team has been defeated after " + strconv.Itoa(tc.st.Stats.TurnsPlayed) + " turns.")
	case game.StatusDefeat:
		tc.add("Defeat! The battle is lost after " + strconv.Itoa(tc.st.Stats.TurnsPlayed) + " turns.")
	}
}
