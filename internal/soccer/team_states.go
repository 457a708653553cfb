package soccer

import (
	"fmt"

	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// TeamState is a node of the team state graph.
type TeamState int

const (
	StatePrepareForKickoff TeamState = iota
	StateDefending
	StateAttacking
)

func (s TeamState) String() string {
	switch s {
	case StatePrepareForKickoff:
		return "PrepareForKickoff"
	case StateDefending:
		return "Defending"
	case StateAttacking:
		return "Attacking"
	default:
		return fmt.Sprintf("TeamState(%d)", int(s))
	}
}

func (s TeamState) Name() string { return s.String() }

func (s TeamState) Enter(t *Team) {
	switch s {
	case StatePrepareForKickoff:
		t.clearKeyPlayers()
		t.ReturnAllFieldPlayersToHome()
	case StateDefending:
		t.ChangePlayerHomeRegions(t.defendRegions)
		t.UpdateTargetsOfWaitingPlayers()
	case StateAttacking:
		t.ChangePlayerHomeRegions(t.attackRegions)
		t.UpdateTargetsOfWaitingPlayers()
	}
}

func (s TeamState) Execute(t *Team) {
	switch s {
	case StatePrepareForKickoff:
		if t.AllPlayersAtHome() && t.Opponents().AllPlayersAtHome() {
			t.fsm.ChangeState(StateDefending)
		}
	case StateDefending:
		if t.match.gameInPlay && t.InControl() {
			t.fsm.ChangeState(StateAttacking)
		}
	case StateAttacking:
		if !t.InControl() {
			t.fsm.ChangeState(StateDefending)
			return
		}
		t.DetermineBestSupportingPosition()
	}
}

func (s TeamState) Exit(t *Team) {
	switch s {
	case StatePrepareForKickoff:
		t.match.SetGameInPlay(true)
	case StateAttacking:
		t.SetSupportingPlayer(NoPlayer)
	}
}

// OnMessage: teams receive no telegrams.
func (s TeamState) OnMessage(*Team, messaging.Telegram) bool { return false }
