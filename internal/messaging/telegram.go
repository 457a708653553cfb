// Package messaging delivers typed telegrams between simulation entities,
// either immediately or after a delay measured on the simulation clock.
package messaging

import (
	"fmt"
	"time"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
)

// EntityID identifies a message receiver. Zero is reserved for "nobody".
type EntityID int

// NoEntity is the sender of team-wide or anonymous messages.
const NoEntity EntityID = 0

// MessageType is the code carried by a telegram.
type MessageType uint8

const (
	MsgReceiveBall MessageType = iota
	MsgPassToMe
	MsgSupportAttacker
	MsgGoHome
	MsgWait
)

func (m MessageType) String() string {
	switch m {
	case MsgReceiveBall:
		return "receive_ball"
	case MsgPassToMe:
		return "pass_to_me"
	case MsgSupportAttacker:
		return "support_attacker"
	case MsgGoHome:
		return "go_home"
	case MsgWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Payload is the closed set of message bodies. Messages that need no data
// carry a nil payload.
type Payload interface {
	isPayload()
}

// ReceiveBall tells a player where the ball is being played to.
type ReceiveBall struct {
	Target geom.Vec2
}

// PassToMe asks the controlling player to pass to Requester.
type PassToMe struct {
	Requester EntityID
}

func (ReceiveBall) isPayload() {}
func (PassToMe) isPayload()    {}

// Telegram is one addressed message.
type Telegram struct {
	Sender       EntityID
	Receiver     EntityID
	Msg          MessageType
	DispatchTime time.Duration
	Payload      Payload
}

// SmallestDelay is both the threshold below which a message is delivered
// immediately and the tolerance used when comparing dispatch times.
const SmallestDelay = 250 * time.Microsecond

// Equal reports whether two telegrams are duplicates of each other.
func (t Telegram) Equal(o Telegram) bool {
	dt := t.DispatchTime - o.DispatchTime
	if dt < 0 {
		dt = -dt
	}
	return t.Sender == o.Sender && t.Receiver == o.Receiver && t.Msg == o.Msg && dt < SmallestDelay
}

func (t Telegram) String() string {
	return fmt.Sprintf("%s %d->%d @%s", t.Msg, t.Sender, t.Receiver, t.DispatchTime)
}

// ReceiveBallPayload extracts the target of a ReceiveBall telegram.
func (t Telegram) ReceiveBallPayload() (ReceiveBall, bool) {
	p, ok := t.Payload.(ReceiveBall)
	return p, ok
}

// PassToMePayload extracts the requester of a PassToMe telegram.
func (t Telegram) PassToMePayload() (PassToMe, bool) {
	p, ok := t.Payload.(PassToMe)
	return p, ok
}
