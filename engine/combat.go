package engine

import (
	"fmt"
	"math"

	"github.com/nathoo/towercore/engine/events"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/engine/stats"
	"github.com/nathoo/towercore/types"
)

// Monster tuning.
const (
	BossEvery      = 10
	BossLevelBonus = 3
	BossPowerBonus = 8
	MonsterArmor   = 5 // subtracted from monster power when it strikes
)

// IsBossFloor reports whether the monster spawned on floor is a boss.
func IsBossFloor(floor int) bool {
	return floor%BossEvery == 0
}

// SpawnMonster builds the monster for a floor. The stat block depends only
// on the floor; species is the display name drawn by the caller.
func SpawnMonster(id string, floor int, species string) types.Monster {
	isBoss := IsBossFloor(floor)
	statBase := 8 + floor/10

	level := floor
	power := statBase
	name := species
	stun := 4.0
	if isBoss {
		level += BossLevelBonus
		power += BossPowerBonus
		name = "Boss " + species
		stun = 8
	}

	hp := statBase * 2
	return types.Monster{
		ID:    id,
		Name:  name,
		Level: level,
		Stats: types.Stats{
			Power:      float64(power),
			Defense:    float64(statBase),
			Vitality:   float64(hp),
			CritRate:   float64(5 + floor/50),
			CritDamage: float64(50 + (floor/25)*5),
			Haste:      float64(5 + floor/30),
			Magic:      float64(statBase),
			StunChance: stun,
		},
		HP:     hp,
		MaxHP:  hp,
		IsBoss: isBoss,
	}
}

// HeroDamage is the uncritted damage of one hero hit:
// max(1, power + floor(magic/2) - floor(defense/3)).
func HeroDamage(hero types.Stats, monsterDefense float64) int {
	dmg := int(math.Floor(hero.Power)) + int(math.Floor(hero.Magic/2)) - int(math.Floor(monsterDefense/3))
	return max(1, dmg)
}

// CritDamage applies a critical multiplier of 1 + critDamage/100, floored.
func CritDamage(dmg int, critDamage float64) int {
	return int(math.Floor(float64(dmg) * (1 + critDamage/100)))
}

// MonsterDamage is the damage of a monster strike: max(1, power - 5).
func MonsterDamage(power float64) int {
	return max(1, int(math.Floor(power))-MonsterArmor)
}

// inventoryView resolves gear and gems for stat computation. Gems in a
// socket resolve through the socket's retained payload.
type inventoryView struct {
	s *types.State
}

func (v inventoryView) Gear(id string) (types.Gear, bool) {
	if i := state.FindGear(v.s, id); i >= 0 {
		return v.s.Inventory.Gear[i], true
	}
	return types.Gear{}, false
}

func (v inventoryView) Gem(id string) (types.Gem, bool) {
	if i := state.FindGem(v.s, id); i >= 0 {
		return v.s.Inventory.Gems[i], true
	}
	return state.SocketedGem(v.s, id)
}

// heroStats returns the effective stats of roster slot i.
func (e *Engine) heroStats(s *types.State, i int) types.Stats {
	founder := i == 0 && state.IsFounder(s, e.Defs)
	return stats.Compute(s.Heroes[i], inventoryView{s}, founder)
}

// logBattle appends a line to the battle log and to the operation output.
func (e *Engine) logBattle(s *types.State, res *types.Result, turn int, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	s.Tower.BattleLog = append(s.Tower.BattleLog, types.BattleEvent{
		ID:   e.NewID(),
		Turn: turn,
		Text: text,
		At:   e.Now(),
	})
	res.Output = append(res.Output, text)
}

// startBattle spawns the monster for the current floor. No-op in battle.
func (e *Engine) startBattle(s *types.State, res *types.Result) {
	if s.Tower.InBattle {
		res.Output = append(res.Output, "A battle is already in progress.")
		return
	}

	species := "Monster"
	if len(e.Defs.Species) > 0 {
		species = e.Defs.Species[e.RNG.Intn(len(e.Defs.Species))]
	}
	m := SpawnMonster(e.NewID(), s.UI.Floor, species)

	s.Tower.Monsters = []types.Monster{m}
	s.Tower.BattleLog = []types.BattleEvent{}
	s.Tower.Turn = 1
	s.Tower.InBattle = true

	res.Output = append(res.Output, fmt.Sprintf("Floor %d: %s (level %d, %d HP) appears!", s.UI.Floor, m.Name, m.Level, m.HP))
	res.Events = append(res.Events, events.New(events.BattleStarted,
		"floor", s.UI.Floor, "monster", m.Name, "boss", m.IsBoss))
}

// nextTurn runs one hero phase and, if the monster survives unstunned, one
// monster phase. No-op when idle.
func (e *Engine) nextTurn(s *types.State, res *types.Result) {
	if !s.Tower.InBattle || len(s.Tower.Monsters) == 0 {
		res.Output = append(res.Output, "There is no battle in progress.")
		return
	}

	turn := s.Tower.Turn
	monster := &s.Tower.Monsters[0]

	// Hero phase.
	total := 0
	stunned := false
	for i := range s.Heroes {
		hero := &s.Heroes[i]
		if hero.CurrentHP <= 0 {
			continue
		}
		st := e.heroStats(s, i)

		dmg := HeroDamage(st, monster.Stats.Defense)
		crit := e.RNG.Float64()*100 < st.CritRate
		if crit {
			dmg = CritDamage(dmg, st.CritDamage)
		}
		stun := e.RNG.Float64()*100 < st.StunChance
		total += dmg

		critText, stunText := "", ""
		if crit {
			critText = " (CRIT)"
		}
		if stun {
			stunText = " and stuns!"
		}
		e.logBattle(s, res, turn, "%s hits %s for %d%s%s", hero.Name, monster.Name, dmg, critText, stunText)
		res.Events = append(res.Events, events.New(events.HeroHit,
			"hero", hero.ID, "damage", dmg, "crit", crit, "stun", stun))

		if stun {
			stunned = true
			e.logBattle(s, res, turn, "%s is stunned and misses its turn!", monster.Name)
			res.Events = append(res.Events, events.New(events.MonsterStunned, "hero", hero.ID))
		}
	}

	monster.HP -= total
	res.Events = append(res.Events, events.New(events.TurnEnded, "turn", turn, "damage", total))

	// Victory.
	if monster.HP <= 0 {
		name := monster.Name
		e.logBattle(s, res, turn, "%s defeated!", name)
		s.Tower.Monsters = []types.Monster{}
		s.Tower.InBattle = false
		s.UI.Floor++
		res.Events = append(res.Events,
			events.New(events.MonsterDefeated, "monster", name),
			events.New(events.FloorAdvanced, "floor", s.UI.Floor),
		)
		// The boss flag comes from the floor just entered.
		e.generateLoot(s, res, s.UI.Floor%BossEvery == 1)
		return
	}

	// Monster phase.
	if !stunned {
		e.monsterPhase(s, res, turn, monster)
	}

	// Wipe.
	if len(state.AliveHeroes(s)) == 0 {
		e.logBattle(s, res, turn, "The party is wiped out... They retreat to Floor 1 with all gear.")
		s.Tower.Monsters = []types.Monster{}
		s.Tower.InBattle = false
		s.UI.Floor = 1
		for i := range s.Heroes {
			s.Heroes[i].CurrentHP = state.MaxHP(&s.Heroes[i])
		}
		res.Events = append(res.Events, events.New(events.PartyWiped, "turn", turn))
		return
	}

	s.Tower.Turn++
}

// monsterPhase strikes one living hero chosen uniformly, then resolves a
// revive potion or the hero going down.
func (e *Engine) monsterPhase(s *types.State, res *types.Result, turn int, monster *types.Monster) {
	alive := state.AliveHeroes(s)
	if len(alive) == 0 {
		return
	}
	target := &s.Heroes[alive[e.RNG.Intn(len(alive))]]

	dmg := MonsterDamage(monster.Stats.Power)
	target.CurrentHP = max(0, target.CurrentHP-dmg)
	e.logBattle(s, res, turn, "%s strikes %s for %d", monster.Name, target.Name, dmg)
	res.Events = append(res.Events, events.New(events.MonsterHit, "hero", target.ID, "damage", dmg))

	if target.CurrentHP > 0 {
		return
	}
	if s.Inventory.Potions.Revive > 0 {
		s.Inventory.Potions.Revive--
		target.CurrentHP = state.MaxHP(target)
		e.logBattle(s, res, turn, "A Revive Potion is consumed! %s returns to full health!", target.Name)
		res.Events = append(res.Events, events.New(events.HeroRevived, "hero", target.ID))
		return
	}
	e.logBattle(s, res, turn, "%s is down!", target.Name)
	res.Events = append(res.Events, events.New(events.HeroDown, "hero", target.ID))
}
