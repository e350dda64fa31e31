package dexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Contacts fetches one page of contacts. The page total comes from
// the pagination.total.count envelope.
func (c *Client) Contacts(ctx context.Context, limit, offset int) (*ContactsPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var envelope struct {
		Contacts   []json.RawMessage `json:"contacts"`
		Pagination paginationTotal   `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/contacts", pageQuery(limit, offset), nil, &envelope); err != nil {
		return nil, err
	}

	page := &ContactsPage{
		Contacts: make([]Contact, 0, len(envelope.Contacts)),
		Total:    envelope.Pagination.Total.Count,
		Limit:    limit,
		Offset:   offset,
	}
	for _, raw := range envelope.Contacts {
		var contact Contact
		if err := json.Unmarshal(raw, &contact); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding contact in page", err)
		}
		contact.Raw = raw
		page.Contacts = append(page.Contacts, contact)
	}
	return page, nil
}

// Contact fetches a single contact by id.
func (c *Client) Contact(ctx context.Context, contactID string) (*Contact, error) {
	var envelope struct {
		Contacts []json.RawMessage `json:"contacts"`
	}
	if err := c.do(ctx, http.MethodGet, "/contacts/"+contactID, nil, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Contacts) == 0 {
		return nil, dexerrors.New(dexerrors.ErrCodeContactNotFound,
			fmt.Sprintf("contact %s not found", contactID), nil)
	}
	return decodeContact(envelope.Contacts[0])
}

// ContactByEmail looks a contact up by exact email. A miss is not an
// error; found reports whether anything matched.
func (c *Client) ContactByEmail(ctx context.Context, email string) (*Contact, bool, error) {
	query := url.Values{"email": []string{email}}

	var envelope struct {
		Contacts []json.RawMessage `json:"search_contacts_by_exact_email"`
	}
	if err := c.do(ctx, http.MethodGet, "/search/contacts", query, nil, &envelope); err != nil {
		return nil, false, err
	}
	if len(envelope.Contacts) == 0 {
		return nil, false, nil
	}
	contact, err := decodeContact(envelope.Contacts[0])
	if err != nil {
		return nil, false, err
	}
	return contact, true, nil
}

// CreateContact creates a contact and returns the stored record with
// its server-assigned id.
func (c *Client) CreateContact(ctx context.Context, contact NewContact) (*Contact, error) {
	payload := map[string]any{"contact": contact}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, payload, &body); err != nil {
		return nil, err
	}
	return contactEntity(body)
}

// UpdateContact applies an update to an existing contact.
func (c *Client) UpdateContact(ctx context.Context, update ContactUpdate) (*Contact, error) {
	if update.ContactID == "" {
		return nil, dexerrors.ValidationError("contact id is required", nil)
	}
	if update.Changes == nil {
		update.Changes = map[string]any{}
	}
	if update.Emails == nil {
		update.Emails = []Email{}
	}
	if update.Phones == nil {
		update.Phones = []Phone{}
	}

	var body json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/contacts/"+update.ContactID, nil, update, &body); err != nil {
		return nil, err
	}
	return contactEntity(body)
}

// DeleteContact deletes a contact and returns the deleted record.
func (c *Client) DeleteContact(ctx context.Context, contactID string) (*Contact, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/contacts/"+contactID, nil, nil, &body); err != nil {
		return nil, err
	}
	return contactEntity(body)
}

// contactEntity unwraps the operation-specific envelope the mutation
// endpoints use, falling back to the whole body.
func contactEntity(body json.RawMessage) (*Contact, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"insert_contacts_one", "update_contacts_by_pk", "delete_contacts_by_pk"} {
			if raw, ok := envelope[key]; ok {
				return decodeContact(raw)
			}
		}
	}
	return decodeContact(body)
}

func decodeContact(raw json.RawMessage) (*Contact, error) {
	var contact Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, dexerrors.New(dexerrors.ErrCodeAPIUnavailable, "decoding contact", err)
	}
	contact.Raw = raw
	return &contact, nil
}
