package models

import (
	"encoding/json"
	"time"
)

// CompletionEvent records one completion of a habit. Only the calendar day
// of Date is meaningful. A zero Date marks an event whose date could not be
// decoded; such events never match any day.
type CompletionEvent struct {
	Date time.Time `json:"date"`
}

// Valid reports whether the event carries a usable date.
func (e CompletionEvent) Valid() bool {
	return !e.Date.IsZero()
}

func (e *CompletionEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date json.RawMessage `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object at all; keep it as an invalid event.
		*e = CompletionEvent{}
		return nil
	}
	e.Date = ParseTimestamp(raw.Date)
	return nil
}

func (e CompletionEvent) MarshalJSON() ([]byte, error) {
	date, err := marshalTimestamp(e.Date)
	if err != nil {
		return nil, err
	}
	return []byte(`{"date":` + string(date) + `}`), nil
}

// Habit is a habit as served by the remote habit service.
type Habit struct {
	ID                string            `json:"_id"`
	Title             string            `json:"title"`
	Category          string            `json:"category"`
	Description       string            `json:"description,omitempty"`
	Image             string            `json:"image,omitempty"`
	ReminderTime      string            `json:"reminderTime,omitempty"` // HH:MM format
	UserName          string            `json:"userName,omitempty"`
	UserEmail         string            `json:"userEmail"`
	CreatedAt         time.Time         `json:"createdAt"`
	CompletionHistory []CompletionEvent `json:"completionHistory"`
}

type habitAlias Habit

func (h *Habit) UnmarshalJSON(data []byte) error {
	aux := struct {
		*habitAlias
		ID        json.RawMessage `json:"_id"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}{habitAlias: (*habitAlias)(h)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.ID = decodeObjectID(aux.ID)
	h.CreatedAt = ParseTimestamp(aux.CreatedAt)
	return nil
}

func (h Habit) MarshalJSON() ([]byte, error) {
	created, err := marshalTimestamp(h.CreatedAt)
	if err != nil {
		return nil, err
	}
	history := h.CompletionHistory
	if history == nil {
		history = []CompletionEvent{}
	}
	return json.Marshal(struct {
		habitAlias
		CreatedAt         json.RawMessage   `json:"createdAt"`
		CompletionHistory []CompletionEvent `json:"completionHistory"`
	}{
		habitAlias:        habitAlias(h),
		CreatedAt:         created,
		CompletionHistory: history,
	})
}

// decodeObjectID accepts both a plain string id and the extended JSON
// {"$oid": "..."} form.
func decodeObjectID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil {
		return oid.OID
	}
	return ""
}

// NewHabit is the payload submitted when creating a habit.
type NewHabit struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ReminderTime string `json:"reminderTime,omitempty"` // HH:MM format
	UserName     string `json:"userName,omitempty"`
	UserEmail    string `json:"userEmail"`
}

// CreateResult is the service reply to a habit creation.
type CreateResult struct {
	InsertedID   string `json:"insertedId"`
	Acknowledged bool   `json:"acknowledged"`
}

// CompleteResult is the service reply to a mark-complete request.
type CompleteResult struct {
	ModifiedCount int    `json:"modifiedCount"`
	MatchedCount  int    `json:"matchedCount"`
	Message       string `json:"message,omitempty"`
}
