package game

// Side identifies one of the two teams in a battle.
type Side string

const (
	SidePlayer Side = "player"
	SideAI     Side = "ai"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideAI
	}
	return SidePlayer
}

// BattleStatus is the lifecycle state of a battle. Only StatusActive accepts turns.
type BattleStatus string

const (
	StatusActive    BattleStatus = "active"
	StatusVictory   BattleStatus = "victory"
	StatusDefeat    BattleStatus = "defeat"
	StatusAbandoned BattleStatus = "abandoned"
)

// Terminal reports whether no further turns may be processed.
func (s BattleStatus) Terminal() bool { return s != StatusActive }

// BaseStats are the per-battle fixed stats derived from level and upgrades.
type BaseStats struct {
	Power   int `json:"power" yaml:"power"`
	Defense int `json:"defense" yaml:"defense"`
	Speed   int `json:"speed" yaml:"speed"`
}

// Get returns the value of the named stat.
func (b BaseStats) Get(stat StatName) int {
	switch stat {
	case StatDefense:
		return b.Defense
	case StatSpeed:
		return b.Speed
	default:
		return b.Power
	}
}

// CombatMonster is a monster as it exists inside one battle.
type CombatMonster struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Side        Side              `json:"side"`
	Level       int               `json:"level"`
	Stats       BaseStats         `json:"stats"`
	HP          int               `json:"hp"`
	MaxHP       int               `json:"max_hp"`
	MP          int               `json:"mp"`
	MaxMP       int               `json:"max_mp"`
	Abilities   []Ability         `json:"abilities"`
	Resistances []string          `json:"resistances,omitempty"`
	Weaknesses  []string          `json:"weaknesses,omitempty"`
	Conditions  []StatusCondition `json:"conditions,omitempty"`
}

// Fainted reports whether the monster is out of the fight.
func (m CombatMonster) Fainted() bool { return m.HP <= 0 }

// HPPercent returns current HP as a whole-number percent of max HP.
func (m CombatMonster) HPPercent() int {
	if m.MaxHP <= 0 {
		return 0
	}
	return m.HP * 100 / m.MaxHP
}

// FindAbility returns the known ability with the given id.
func (m CombatMonster) FindAbility(id string) (Ability, bool) {
	for _, a := range m.Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}

// Clone returns a deep copy.
func (m CombatMonster) Clone() CombatMonster {
	out := m
	out.Abilities = make([]Ability, len(m.Abilities))
	for i := range m.Abilities {
		out.Abilities[i] = m.Abilities[i].Clone()
	}
	out.Resistances = append([]string(nil), m.Resistances...)
	out.Weaknesses = append([]string(nil), m.Weaknesses...)
	out.Conditions = append([]StatusCondition(nil), m.Conditions...)
	return out
}

// ActiveEffect is a StatModifier instantiated on a target monster.
type ActiveEffect struct {
	ID              int          `json:"id"`
	TargetID        string       `json:"target_id"`
	SourceAbilityID string       `json:"source_ability_id"`
	SourceTrigger   Trigger      `json:"source_trigger,omitempty"`
	Modifier        StatModifier `json:"modifier"`
	Remaining       int          `json:"remaining"`
	Permanent       bool         `json:"permanent"`
}

// ActionType is the discriminator of a submitted turn action.
type ActionType string

const (
	ActionUseAbility  ActionType = "USE_ABILITY"
	ActionSwapMonster ActionType = "SWAP_MONSTER"
	ActionForfeit     ActionType = "FORFEIT"
)

// ActionPayload carries the optional arguments of an action.
type ActionPayload struct {
	AbilityID string `json:"ability_id,omitempty"`
	TargetID  string `json:"target_id,omitempty"`
	MonsterID string `json:"monster_id,omitempty"`
}

// Action is one turn submission.
type Action struct {
	Type    ActionType    `json:"type"`
	Payload ActionPayload `json:"payload"`
}

// BattleResult describes what an ability did to one target.
type BattleResult struct {
	TargetID             string   `json:"target_id"`
	Damage               int      `json:"damage"`
	Healing              int      `json:"healing"`
	StatusEffectsApplied []string `json:"status_effects_applied,omitempty"`
}

// BattleStatistics accumulates from the player's point of view.
type BattleStatistics struct {
	TurnsPlayed   int `json:"turns_played"`
	DamageDealt   int `json:"damage_dealt"`
	DamageTaken   int `json:"damage_taken"`
	AbilitiesUsed int `json:"abilities_used"`
}

// MonsterSnapshot is the audit view of a monster before or after a turn.
type MonsterSnapshot struct {
	ID string `json:"id"`
	HP int    `json:"hp"`
	MP int    `json:"mp"`
}

// TurnRecord is one entry of the optional turn history.
type TurnRecord struct {
	Turn   int               `json:"turn"`
	Side   Side              `json:"side"`
	Action Action            `json:"action"`
	Before []MonsterSnapshot `json:"before"`
	After  []MonsterSnapshot `json:"after"`
	Log    []string          `json:"log"`
}

// BattleState is the authoritative snapshot of a battle.
type BattleState struct {
	PlayerTeam    []CombatMonster  `json:"player_team"`
	AITeam        []CombatMonster  `json:"ai_team"`
	PlayerActive  int              `json:"player_active"`
	AIActive      int              `json:"ai_active"`
	TurnCount     int              `json:"turn_count"`
	CurrentTurn   Side             `json:"current_turn"`
	Status        BattleStatus     `json:"status"`
	Log           []string         `json:"log"`
	Effects       []ActiveEffect   `json:"effects"`
	History       []TurnRecord     `json:"history,omitempty"`
	RecordHistory bool             `json:"record_history"`
	Stats         BattleStatistics `json:"stats"`
	NextEffectID  int              `json:"next_effect_id"`
	ForfeitedBy   Side             `json:"forfeited_by,omitempty"`
}

// NewBattleState seeds a fresh active battle with the player to move first.
func NewBattleState(playerTeam, aiTeam []CombatMonster) BattleState {
	st := BattleState{
		PlayerTeam:  cloneTeam(playerTeam),
		AITeam:      cloneTeam(aiTeam),
		TurnCount:   1,
		CurrentTurn: SidePlayer,
		Status:      StatusActive,
		Log:         []string{"Battle Started!"},
		Effects:     []ActiveEffect{},
		History:     []TurnRecord{},
	}
	for i := range st.PlayerTeam {
		st.PlayerTeam[i].Side = SidePlayer
	}
	for i := range st.AITeam {
		st.AITeam[i].Side = SideAI
	}
	return st
}

// Team returns the team of the given side.
func (s *BattleState) Team(side Side) []CombatMonster {
	if side == SidePlayer {
		return s.PlayerTeam
	}
	return s.AITeam
}

// ActiveIndex returns the active-monster index of the given side.
func (s *BattleState) ActiveIndex(side Side) int {
	if side == SidePlayer {
		return s.PlayerActive
	}
	return s.AIActive
}

// SetActiveIndex changes the active monster of the given side.
func (s *BattleState) SetActiveIndex(side Side, idx int) {
	if side == SidePlayer {
		s.PlayerActive = idx
		return
	}
	s.AIActive = idx
}

// Active returns a pointer to the active monster of a side, or nil when the
// index is out of range.
func (s *BattleState) Active(side Side) *CombatMonster {
	team := s.Team(side)
	idx := s.ActiveIndex(side)
	if idx < 0 || idx >= len(team) {
		return nil
	}
	return &team[idx]
}

// Find returns a pointer to the monster with the given id and its side.
func (s *BattleState) Find(id string) (*CombatMonster, Side, bool) {
	for i := range s.PlayerTeam {
		if s.PlayerTeam[i].ID == id {
			return &s.PlayerTeam[i], SidePlayer, true
		}
	}
	for i := range s.AITeam {
		if s.AITeam[i].ID == id {
			return &s.AITeam[i], SideAI, true
		}
	}
	return nil, "", false
}

// Wiped reports whether every monster of a side has fainted.
func (s *BattleState) Wiped(side Side) bool {
	for _, m := range s.Team(side) {
		if !m.Fainted() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s BattleState) Clone() BattleState {
	out := s
	out.PlayerTeam = cloneTeam(s.PlayerTeam)
	out.AITeam = cloneTeam(s.AITeam)
	out.Log = append([]string{}, s.Log...)
	out.Effects = append([]ActiveEffect{}, s.Effects...)
	out.History = make([]TurnRecord, len(s.History))
	for i, h := range s.History {
		h.Before = append([]MonsterSnapshot(nil), h.Before...)
		h.After = append([]MonsterSnapshot(nil), h.After...)
		h.Log = append([]string(nil), h.Log...)
		out.History[i] = h
	}
	return out
}

func cloneTeam(team []CombatMonster) []CombatMonster {
	out := make([]CombatMonster, len(team))
	for i := range team {
		out[i] = team[i].Clone()
	}
	return out
}

// Rewards are granted to the player when a battle ends. Gold is only present
// on victories.
type Rewards struct {
	RankXP int  `json:"rank_xp"`
	Gold   *int `json:"gold,omitempty"`
}

// BattleEndResult is emitted to persistence when a battle reaches a terminal status.
type BattleEndResult struct {
	Winner     Side             `json:"winner,omitempty"`
	Status     BattleStatus     `json:"status"`
	Forfeited  bool             `json:"forfeited,omitempty"`
	Rewards    Rewards          `json:"rewards"`
	Statistics BattleStatistics `json:"statistics"`
}
