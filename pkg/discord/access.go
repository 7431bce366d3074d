package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// AccessLevel is the authorization a command requires.
type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessWhitelisted
	AccessOwner
)

func (l AccessLevel) String() string {
	switch l {
	case AccessPublic:
		return "public"
	case AccessWhitelisted:
		return "whitelisted"
	case AccessOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Denial reasons shown to the caller.
const (
	ReasonOwnerOnly    = "Only the bot owner can manage the whitelist."
	ReasonUnauthorized = "You are not authorized to use this command."
)

// Membership answers whether a Discord user id is whitelisted.
type Membership interface {
	Contains(id int64) bool
}

// Decision is the result of an access check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Gate decides who may run a command.
type Gate struct {
	ownerID int64
	members Membership
}

// NewGate creates a new Gate
func NewGate(ownerID int64, members Membership) *Gate {
	return &Gate{ownerID: ownerID, members: members}
}

// IsOwner reports whether userID is the bot owner.
func (g *Gate) IsOwner(userID string) bool {
	id, err := strconv.ParseInt(userID, 10, 64)
	return err == nil && id == g.ownerID
}

// Check evaluates level for the Discord user id.
func (g *Gate) Check(level AccessLevel, userID string) Decision {
	switch level {
	case AccessPublic:
		return Decision{Allowed: true}
	case AccessOwner:
		if g.IsOwner(userID) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonOwnerOnly}
	default:
		if g.IsOwner(userID) {
			return Decision{Allowed: true}
		}
		id, err := strconv.ParseInt(userID, 10, 64)
		if err == nil && g.members != nil && g.members.Contains(id) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonUnauthorized}
	}
}

// DenialEmbed renders a refused Decision.
func DenialEmbed(d Decision) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Access Denied",
		Description: d.Reason,
		Color:       0xFF0000,
	}
}
