package syncer

import (
	"context"
	"time"

	"github.com/Aman-CERP/dexsync/internal/dexapi"
	"github.com/Aman-CERP/dexsync/internal/enrich"
	"github.com/Aman-CERP/dexsync/internal/store"
)

// syncedAt stamps rows in RFC 3339 UTC, the same shape the API uses
// for its own timestamps.
func syncedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// applyContact upserts one API contact. Unchanged payloads are skipped
// on the hash alone; changed ones re-derive the enrichment columns and
// carry the stored review columns forward so a sync never undoes a
// human duplicate decision.
func (s *Syncer) applyContact(ctx context.Context, c dexapi.Contact) (outcome, error) {
	if c.ID == "" {
		return outcomeIgnored, nil
	}
	hash, err := RecordHash(c.Raw)
	if err != nil {
		return outcomeIgnored, err
	}

	state, exists, err := s.store.ContactSyncState(ctx, c.ID)
	if err != nil {
		return outcomeIgnored, err
	}
	if exists && state.RecordHash == hash {
		return outcomeUnchanged, nil
	}

	parsed := enrich.ParseName(enrich.ContactName("", c.FirstName, c.LastName))
	role, company := enrich.SplitJobTitle(c.JobTitle)

	contact := &store.Contact{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		JobTitle:  c.JobTitle,
		Linkedin:  c.Linkedin,
		Website:   c.Website,
		Birthday:  c.Birthday,

		FullData:     string(c.Raw),
		RecordHash:   hash,
		LastSyncedAt: syncedAt(),

		DuplicateGroupID:    state.DuplicateGroupID,
		DuplicateResolution: state.DuplicateResolution,
		PrimaryContactID:    state.PrimaryContactID,

		NameGiven:   parsed.Given,
		NameSurname: parsed.Surname,
		NameParsed:  parsed.Raw,
		Company:     company,
		Role:        role,
	}
	for _, email := range c.Emails {
		if email.Email != "" {
			contact.Emails = append(contact.Emails, email.Email)
		}
	}
	for _, phone := range c.Phones {
		if phone.PhoneNumber != "" {
			contact.Phones = append(contact.Phones, store.Phone{
				Number: phone.PhoneNumber,
				Label:  phone.Label,
			})
		}
	}

	if err := s.store.SaveContact(ctx, contact); err != nil {
		return outcomeIgnored, err
	}
	if exists {
		return outcomeUpdated, nil
	}
	return outcomeAdded, nil
}

// applyReminder upserts one reminder behind the same hash gate.
func (s *Syncer) applyReminder(ctx context.Context, r dexapi.Reminder) (outcome, error) {
	if r.ID == "" {
		return outcomeIgnored, nil
	}
	hash, err := RecordHash(r.Raw)
	if err != nil {
		return outcomeIgnored, err
	}

	stored, exists, err := s.store.ReminderHash(ctx, r.ID)
	if err != nil {
		return outcomeIgnored, err
	}
	if exists && stored == hash {
		return outcomeUnchanged, nil
	}

	reminder := &store.Reminder{
		ID:           r.ID,
		Body:         r.Body,
		IsComplete:   r.IsComplete,
		DueDate:      r.DueAtDate,
		FullData:     string(r.Raw),
		RecordHash:   hash,
		LastSyncedAt: syncedAt(),
	}
	for _, link := range r.ContactIDs {
		if link.ContactID != "" {
			reminder.ContactIDs = append(reminder.ContactIDs, link.ContactID)
		}
	}

	if err := s.store.SaveReminder(ctx, reminder); err != nil {
		return outcomeIgnored, err
	}
	if exists {
		return outcomeUpdated, nil
	}
	return outcomeAdded, nil
}

// applyNote upserts one timeline note behind the same hash gate.
func (s *Syncer) applyNote(ctx context.Context, n dexapi.Note) (outcome, error) {
	if n.ID == "" {
		return outcomeIgnored, nil
	}
	hash, err := RecordHash(n.Raw)
	if err != nil {
		return outcomeIgnored, err
	}

	stored, exists, err := s.store.NoteHash(ctx, n.ID)
	if err != nil {
		return outcomeIgnored, err
	}
	if exists && stored == hash {
		return outcomeUnchanged, nil
	}

	note := &store.Note{
		ID:           n.ID,
		Note:         n.Note,
		EventTime:    n.EventTime,
		FullData:     string(n.Raw),
		RecordHash:   hash,
		LastSyncedAt: syncedAt(),
	}
	for _, link := range n.Contacts {
		if link.ContactID != "" {
			note.ContactIDs = append(note.ContactIDs, link.ContactID)
		}
	}

	if err := s.store.SaveNote(ctx, note); err != nil {
		return outcomeIgnored, err
	}
	if exists {
		return outcomeUpdated, nil
	}
	return outcomeAdded, nil
}
