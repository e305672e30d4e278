package model

// Action is a human-friendly operating mode for one hour of an outage.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
	ActionUnserved    Action = "UNSERVED"
)

// ActionFromEnergyDelta classifies an hour by how stored energy moved and whether load went unmet.
func ActionFromEnergyDelta(deltaKWh float64, unserved bool) Action {
	switch {
	case unserved:
		return ActionUnserved
	case deltaKWh > 0:
		return ActionCharging
	case deltaKWh < 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
