// Package discord provides the event handler for managing Discord events.
package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// EventHandler manages event registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// RegisterEvent adds an event handler to the Discord session
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
}

// Count returns the number of registered handlers.
func (eh *EventHandler) Count() int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return len(eh.events)
}

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// DisconnectHandler is called when the gateway connection drops
type DisconnectHandler func(s *discordgo.Session, d *discordgo.Disconnect)

// ResumedHandler is called when the gateway session resumes
type ResumedHandler func(s *discordgo.Session, r *discordgo.Resumed)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Event 'Ready' registered", "EventHandler")
}

// OnDisconnect registers a disconnect event handler
func (eh *EventHandler) OnDisconnect(handler DisconnectHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Event 'Disconnect' registered", "EventHandler")
}

// OnResumed registers a resumed event handler
func (eh *EventHandler) OnResumed(handler ResumedHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Event 'Resumed' registered", "EventHandler")
}
