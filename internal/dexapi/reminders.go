package dexapi

import (
	"context"
	"encoding/json"
	"net/http"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Reminders fetches one page of reminders. Unlike contacts and notes,
// the reminders endpoint reports its count as total.aggregate.count.
func (c *Client) Reminders(ctx context.Context, limit, offset int) (*RemindersPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var envelope struct {
		Reminders []json.RawMessage `json:"reminders"`
		Total     aggregateTotal    `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/reminders", pageQuery(limit, offset), nil, &envelope); err != nil {
		return nil, err
	}

	page := &RemindersPage{
		Reminders: make([]Reminder, 0, len(envelope.Reminders)),
		Total:     envelope.Total.Aggregate.Count,
		Limit:     limit,
		Offset:    offset,
	}
	for _, raw := range envelope.Reminders {
		var reminder Reminder
		if err := json.Unmarshal(raw, &reminder); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding reminder in page", err)
		}
		reminder.Raw = raw
		page.Reminders = append(page.Reminders, reminder)
	}
	return page, nil
}

// CreateReminder creates a reminder and returns the stored record.
func (c *Client) CreateReminder(ctx context.Context, reminder NewReminder) (*Reminder, error) {
	payload := map[string]any{"reminder": reminder}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/reminders", nil, payload, &body); err != nil {
		return nil, err
	}
	return reminderEntity(body)
}

// UpdateReminder applies field changes to an existing reminder.
func (c *Client) UpdateReminder(ctx context.Context, reminderID string, changes map[string]any) (*Reminder, error) {
	if reminderID == "" {
		return nil, dexerrors.ValidationError("reminder id is required", nil)
	}
	if changes == nil {
		changes = map[string]any{}
	}

	payload := map[string]any{"changes": changes}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/reminders/"+reminderID, nil, payload, &body); err != nil {
		return nil, err
	}
	return reminderEntity(body)
}

// CompleteReminder marks a reminder done.
func (c *Client) CompleteReminder(ctx context.Context, reminderID string) (*Reminder, error) {
	return c.UpdateReminder(ctx, reminderID, map[string]any{"is_complete": true})
}

// DeleteReminder deletes a reminder and returns the deleted record.
func (c *Client) DeleteReminder(ctx context.Context, reminderID string) (*Reminder, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/reminders/"+reminderID, nil, nil, &body); err != nil {
		return nil, err
	}
	return reminderEntity(body)
}

func reminderEntity(body json.RawMessage) (*Reminder, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"insert_reminders_one", "update_reminders_by_pk", "delete_reminders_by_pk"} {
			if raw, ok := envelope[key]; ok {
				return decodeReminder(raw)
			}
		}
	}
	return decodeReminder(body)
}

func decodeReminder(raw json.RawMessage) (*Reminder, error) {
	var reminder Reminder
	if err := json.Unmarshal(raw, &reminder); err != nil {
		return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding reminder", err)
	}
	reminder.Raw = raw
	return &reminder, nil
}
