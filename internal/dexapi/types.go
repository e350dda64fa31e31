package dexapi

import "encoding/json"

// Email is an email row attached to a contact.
type Email struct {
	Email     string `json:"email"`
	ContactID string `json:"contact_id,omitempty"`
}

// Phone is a phone row attached to a contact.
type Phone struct {
	PhoneNumber string `json:"phone_number"`
	Label       string `json:"label,omitempty"`
	ContactID   string `json:"contact_id,omitempty"`
}

// Contact is a contact record as the API returns it. Raw preserves
// the exact response object so callers can snapshot and hash it
// without re-serialization drift.
type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title"`
	Description string `json:"description"`
	Education   string `json:"education"`
	Website     string `json:"website"`
	ImageURL    string `json:"image_url"`

	Linkedin  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Telegram  string `json:"telegram"`

	Birthday            string `json:"birthday"`
	BirthdayCurrentYear string `json:"birthday_current_year"`
	LastSeenAt          string `json:"last_seen_at"`
	NextReminderAt      string `json:"next_reminder_at"`

	Emails []Email `json:"emails"`
	Phones []Phone `json:"phones"`

	Raw json.RawMessage `json:"-"`
}

// ContactsPage is one page of contacts plus the collection total.
type ContactsPage struct {
	Contacts []Contact
	Total    int
	Limit    int
	Offset   int
}

// HasMore reports whether another page exists past this one.
func (p *ContactsPage) HasMore() bool {
	return p.Offset+len(p.Contacts) < p.Total
}

// nested wraps a child payload the way the create endpoints expect:
// {"data": {...}} for one row, {"data": [...]} for many.
type nested[T any] struct {
	Data T `json:"data"`
}

// NewContact is the request body for creating a contact.
type NewContact struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Description string `json:"description,omitempty"`
	Education   string `json:"education,omitempty"`
	Website     string `json:"website,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	Linkedin  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Telegram  string `json:"telegram,omitempty"`

	BirthdayYear   int    `json:"birthday_year,omitempty"`
	LastSeenAt     string `json:"last_seen_at,omitempty"`
	NextReminderAt string `json:"next_reminder_at,omitempty"`

	ContactEmails *nested[Email] `json:"contact_emails,omitempty"`
	ContactPhones *nested[Phone] `json:"contact_phone_numbers,omitempty"`
}

// WithEmail attaches an email in the nested create format.
func (c NewContact) WithEmail(email string) NewContact {
	c.ContactEmails = &nested[Email]{Data: Email{Email: email}}
	return c
}

// WithPhone attaches a phone in the nested create format. An empty
// label defaults to "Work", matching the API.
func (c NewContact) WithPhone(number, label string) NewContact {
	if label == "" {
		label = "Work"
	}
	c.ContactPhones = &nested[Phone]{Data: Phone{PhoneNumber: number, Label: label}}
	return c
}

// ContactUpdate is the request body for updating a contact. Changes
// maps field names to new values; the email and phone lists replace
// the stored ones only when their update flag is set.
type ContactUpdate struct {
	ContactID string         `json:"contactId"`
	Changes   map[string]any `json:"changes"`

	UpdateEmails bool    `json:"update_contact_emails"`
	Emails       []Email `json:"contact_emails"`

	UpdatePhones bool    `json:"update_contact_phone_numbers"`
	Phones       []Phone `json:"contact_phone_numbers"`
}

// ReminderContact links a reminder to a contact by id or email.
type ReminderContact struct {
	ContactID string `json:"contact_id,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Reminder is a reminder record as the API returns it.
type Reminder struct {
	ID         string            `json:"id"`
	Body       string            `json:"body"`
	IsComplete bool              `json:"is_complete"`
	DueAtDate  string            `json:"due_at_date"`
	DueAtTime  string            `json:"due_at_time"`
	ContactIDs []ReminderContact `json:"contact_ids"`

	Raw json.RawMessage `json:"-"`
}

// RemindersPage is one page of reminders plus the collection total.
type RemindersPage struct {
	Reminders []Reminder
	Total     int
	Limit     int
	Offset    int
}

// HasMore reports whether another page exists past this one.
func (p *RemindersPage) HasMore() bool {
	return p.Offset+len(p.Reminders) < p.Total
}

// NewReminder is the request body for creating a reminder.
type NewReminder struct {
	Title      string                     `json:"title,omitempty"`
	Text       string                     `json:"text"`
	IsComplete bool                       `json:"is_complete"`
	DueAtDate  string                     `json:"due_at_date,omitempty"`
	Contacts   *nested[[]ReminderContact] `json:"reminders_contacts,omitempty"`
}

// WithContacts links the reminder to the given contact ids.
func (r NewReminder) WithContacts(contactIDs ...string) NewReminder {
	links := make([]ReminderContact, len(contactIDs))
	for i, id := range contactIDs {
		links[i] = ReminderContact{ContactID: id}
	}
	r.Contacts = &nested[[]ReminderContact]{Data: links}
	return r
}

// NoteContact links a note to a contact.
type NoteContact struct {
	ContactID string `json:"contact_id"`
}

// Note is a timeline item as the API returns it.
type Note struct {
	ID        string        `json:"id"`
	Note      string        `json:"note"`
	EventTime string        `json:"event_time"`
	Contacts  []NoteContact `json:"contacts"`

	Raw json.RawMessage `json:"-"`
}

// NotesPage is one page of notes plus the collection total.
type NotesPage struct {
	Notes  []Note
	Total  int
	Limit  int
	Offset int
}

// HasMore reports whether another page exists past this one.
func (p *NotesPage) HasMore() bool {
	return p.Offset+len(p.Notes) < p.Total
}

// NewNote is the request body for creating a timeline item.
type NewNote struct {
	Note        string                 `json:"note"`
	EventTime   string                 `json:"event_time,omitempty"`
	MeetingType string                 `json:"meeting_type"`
	Contacts    *nested[[]NoteContact] `json:"timeline_items_contacts,omitempty"`
}

// WithContacts links the note to the given contact ids.
func (n NewNote) WithContacts(contactIDs ...string) NewNote {
	links := make([]NoteContact, len(contactIDs))
	for i, id := range contactIDs {
		links[i] = NoteContact{ContactID: id}
	}
	n.Contacts = &nested[[]NoteContact]{Data: links}
	return n
}

// paginationTotal is the count envelope on contact and note pages:
// pagination.total.count.
type paginationTotal struct {
	Total struct {
		Count int `json:"count"`
	} `json:"total"`
}

// aggregateTotal is the count envelope on reminder pages:
// total.aggregate.count.
type aggregateTotal struct {
	Aggregate struct {
		Count int `json:"count"`
	} `json:"aggregate"`
}
