package component

import "github.com/kumpelblase2/agentd/internal/data"

// MovementSpeed selects which of the agent's speeds is in effect.
type MovementSpeed uint8

const (
	SpeedWalking MovementSpeed = iota
	SpeedRunning
	SpeedBerserk
)

// MovementState is the currently selected speed of an agent.
type MovementState struct {
	Speed MovementSpeed
}

func DefaultPlayerMovement() MovementState {
	return MovementState{Speed: SpeedRunning}
}

func DefaultMonsterMovement() MovementState {
	return MovementState{Speed: SpeedWalking}
}

// Agent carries the movement speeds of a controllable entity.
type Agent struct {
	WalkingSpeed float32
	RunningSpeed float32
	BerserkSpeed float32
}

func DefaultAgent() Agent {
	return Agent{WalkingSpeed: 16, RunningSpeed: 50, BerserkSpeed: 100}
}

func AgentFromCharacterData(c *data.RefCharacter) Agent {
	return Agent{
		WalkingSpeed: c.WalkSpeed,
		RunningSpeed: c.RunSpeed,
		BerserkSpeed: c.BerserkSpeed,
	}
}

func (a *Agent) SpeedValue(speed MovementSpeed) float32 {
	switch speed {
	case SpeedWalking:
		return a.WalkingSpeed
	case SpeedBerserk:
		return a.BerserkSpeed
	default:
		return a.RunningSpeed
	}
}

// GoalKind discriminates the movement goal variants. Only one goal is active
// at a time.
type GoalKind uint8

const (
	GoalNone GoalKind = iota
	GoalLocation
	GoalDirection
	GoalTurn
)

// MovementGoal is the active movement intention of a moving agent.
type MovementGoal struct {
	Kind    GoalKind
	Target  GlobalLocation // GoalLocation
	Heading Heading        // GoalDirection / GoalTurn
}

func LocationGoal(target GlobalLocation) MovementGoal {
	return MovementGoal{Kind: GoalLocation, Target: target}
}

func DirectionGoal(heading Heading) MovementGoal {
	return MovementGoal{Kind: GoalDirection, Heading: heading}
}

func TurnGoal(heading Heading) MovementGoal {
	return MovementGoal{Kind: GoalTurn, Heading: heading}
}
