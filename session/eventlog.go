// Copyright (c) 2025 J. Rondán.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"
)

// SecurityEvent is one entry in the security audit trail.
type SecurityEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	User      string    `json:"user"`
	IP        string    `json:"ip"`
	Status    string    `json:"status"` // "success" or "failed"
}

// EventLog keeps a bounded in-process trail of authentication and
// authorization events for the super-admin security audit view. Oldest
// entries are dropped once the capacity is reached.
type EventLog struct {
	mu     sync.Mutex
	events []SecurityEvent
	cap    int
	now    func() time.Time
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = 256
	}
	return &EventLog{cap: capacity, now: time.Now}
}

// Record appends one event, evicting the oldest if full. A nil log
// drops the event.
func (l *EventLog) Record(action, user, ip string, ok bool) {
	if l == nil {
		return
	}
	status := "failed"
	if ok {
		status = "success"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) >= l.cap {
		l.events = l.events[1:]
	}
	l.events = append(l.events, SecurityEvent{
		Timestamp: l.now(),
		Action:    action,
		User:      user,
		IP:        ip,
		Status:    status,
	})
}

// Recent returns up to n events, newest first.
func (l *EventLog) Recent(n int) []SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]SecurityEvent, n)
	for i := 0; i < n; i++ {
		out[i] = l.events[len(l.events)-1-i]
	}
	return out
}
