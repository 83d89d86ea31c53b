package events

import "github.com/nathoo/towercore/types"

// AnalyticsHandlers keep State.Analytics current: turns and damage for the
// fight in progress, average damage per turn, and floors cleared.
func AnalyticsHandlers() []Handler {
	return []Handler{
		{EventType: BattleStarted, Handle: func(_ types.Event, s *types.State) {
			s.Analytics.TurnsThisFight = 0
			s.Analytics.DamageThisFight = 0
			s.Analytics.DPSAvg = 0
		}},
		{EventType: TurnEnded, Handle: func(evt types.Event, s *types.State) {
			s.Analytics.TurnsThisFight++
			s.Analytics.DamageThisFight += Int(evt, "damage")
			s.Analytics.DPSAvg = float64(s.Analytics.DamageThisFight) / float64(s.Analytics.TurnsThisFight)
		}},
		{EventType: FloorAdvanced, Handle: func(_ types.Event, s *types.State) {
			s.Analytics.FloorsCleared++
		}},
	}
}
