package dexapi

import (
	"context"
	"encoding/json"
	"net/http"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Notes fetches one page of timeline items. The count envelope
// matches contacts: pagination.total.count.
func (c *Client) Notes(ctx context.Context, limit, offset int) (*NotesPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var envelope struct {
		Notes      []json.RawMessage `json:"timeline_items"`
		Pagination paginationTotal   `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/timeline_items", pageQuery(limit, offset), nil, &envelope); err != nil {
		return nil, err
	}

	page := &NotesPage{
		Notes:  make([]Note, 0, len(envelope.Notes)),
		Total:  envelope.Pagination.Total.Count,
		Limit:  limit,
		Offset: offset,
	}
	for _, raw := range envelope.Notes {
		var note Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding note in page", err)
		}
		note.Raw = raw
		page.Notes = append(page.Notes, note)
	}
	return page, nil
}

// NotesByContact fetches every note linked to one contact.
func (c *Client) NotesByContact(ctx context.Context, contactID string) ([]Note, error) {
	var envelope struct {
		Notes []json.RawMessage `json:"timeline_items"`
	}
	if err := c.do(ctx, http.MethodGet, "/timeline_items/contacts/"+contactID, nil, nil, &envelope); err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(envelope.Notes))
	for _, raw := range envelope.Notes {
		var note Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding note", err)
		}
		note.Raw = raw
		notes = append(notes, note)
	}
	return notes, nil
}

// CreateNote creates a timeline item and returns the stored record.
func (c *Client) CreateNote(ctx context.Context, note NewNote) (*Note, error) {
	if note.MeetingType == "" {
		note.MeetingType = "note"
	}
	payload := map[string]any{"timeline_event": note}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/timeline_items", nil, payload, &body); err != nil {
		return nil, err
	}
	return noteEntity(body)
}

// UpdateNote applies field changes to an existing timeline item.
func (c *Client) UpdateNote(ctx context.Context, noteID string, changes map[string]any) (*Note, error) {
	if noteID == "" {
		return nil, dexerrors.ValidationError("note id is required", nil)
	}
	if changes == nil {
		changes = map[string]any{}
	}

	payload := map[string]any{"changes": changes}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/timeline_items/"+noteID, nil, payload, &body); err != nil {
		return nil, err
	}
	return noteEntity(body)
}

// DeleteNote deletes a timeline item and returns the deleted record.
func (c *Client) DeleteNote(ctx context.Context, noteID string) (*Note, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/timeline_items/"+noteID, nil, nil, &body); err != nil {
		return nil, err
	}
	return noteEntity(body)
}

func noteEntity(body json.RawMessage) (*Note, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"insert_timeline_items_one", "update_timeline_items_by_pk", "delete_timeline_items_by_pk"} {
			if raw, ok := envelope[key]; ok {
				return decodeNote(raw)
			}
		}
	}
	return decodeNote(body)
}

func decodeNote(raw json.RawMessage) (*Note, error) {
	var note Note
	if err := json.Unmarshal(raw, &note); err != nil {
		return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding note", err)
	}
	note.Raw = raw
	return &note, nil
}
