package dexapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactPageBody = `{
	"contacts": [
		{
			"id": "c1",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"job_title": "Engineer",
			"linkedin": "https://linkedin.com/in/ada",
			"website": "ada.example.com",
			"birthday": "1815-12-10",
			"emails": [{"email": "ada@example.com", "contact_id": "c1"}],
			"phones": [{"phone_number": "555-123-4567", "label": "Work", "contact_id": "c1"}]
		},
		{"id": "c2"}
	],
	"pagination": {"total": {"count": 7}}
}`

func TestContacts_DecodesPageAndTotal(t *testing.T) {
	// Given: a server returning one page with two contacts
	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(contactPageBody))
	})

	// When: fetching a page
	page, err := client.Contacts(context.Background(), 2, 4)
	require.NoError(t, err)

	// Then: pagination parameters were sent and the envelope decoded
	assert.Equal(t, "limit=2&offset=4", query)
	assert.Equal(t, 7, page.Total)
	assert.True(t, page.HasMore())

	require.Len(t, page.Contacts, 2)
	ada := page.Contacts[0]
	assert.Equal(t, "c1", ada.ID)
	assert.Equal(t, "Ada", ada.FirstName)
	assert.Equal(t, "Lovelace", ada.LastName)
	assert.Equal(t, "1815-12-10", ada.Birthday)
	require.Len(t, ada.Emails, 1)
	assert.Equal(t, "ada@example.com", ada.Emails[0].Email)
	require.Len(t, ada.Phones, 1)
	assert.Equal(t, "Work", ada.Phones[0].Label)

	// And: the raw response object rides along for hashing
	assert.True(t, json.Valid(ada.Raw))
	assert.Contains(t, string(ada.Raw), `"first_name": "Ada"`)

	// And: a bare contact decodes to zero fields without error
	assert.Equal(t, "c2", page.Contacts[1].ID)
	assert.Empty(t, page.Contacts[1].Emails)
}

func TestContactsPage_HasMore(t *testing.T) {
	page := &ContactsPage{Contacts: make([]Contact, 3), Total: 7, Offset: 4}
	assert.False(t, page.HasMore())

	page.Offset = 0
	assert.True(t, page.HasMore())
}

func TestContact_FetchesSingleRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		_, _ = w.Write([]byte(`{"contacts":[{"id":"c1","first_name":"Ada"}]}`))
	})

	contact, err := client.Contact(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", contact.FirstName)
}

func TestContact_EmptyListIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"contacts":[]}`))
	})

	_, err := client.Contact(context.Background(), "ghost")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestContactByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/contacts", r.URL.Path)
		if r.URL.Query().Get("email") == "ada@example.com" {
			_, _ = w.Write([]byte(`{"search_contacts_by_exact_email":[{"id":"c1"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"search_contacts_by_exact_email":[]}`))
	})

	// A hit returns the contact
	contact, found, err := client.ContactByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "c1", contact.ID)

	// A miss is found=false, not an error
	contact, found, err = client.ContactByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, contact)
}

func TestCreateContact_WrapsPayloadAndUnwrapsEntity(t *testing.T) {
	// Given: a server that echoes the created entity in its envelope
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"insert_contacts_one":{"id":"new1","first_name":"John"}}`))
	})

	// When: creating a contact with a nested email
	contact, err := client.CreateContact(context.Background(),
		NewContact{FirstName: "John"}.WithEmail("john@example.com"))
	require.NoError(t, err)

	// Then: the payload follows the {"contact": {...}} shape
	inner, ok := body["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "John", inner["first_name"])
	emails, ok := inner["contact_emails"].(map[string]any)
	require.True(t, ok)
	data, ok := emails["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "john@example.com", data["email"])

	// And: the envelope was unwrapped
	assert.Equal(t, "new1", contact.ID)
}

func TestUpdateContact_SendsChangesAndFlags(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"update_contacts_by_pk":{"id":"c1","job_title":"CTO"}}`))
	})

	contact, err := client.UpdateContact(context.Background(), ContactUpdate{
		ContactID: "c1",
		Changes:   map[string]any{"job_title": "CTO"},
	})
	require.NoError(t, err)

	assert.Equal(t, "c1", body["contactId"])
	changes, ok := body["changes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CTO", changes["job_title"])
	assert.Equal(t, false, body["update_contact_emails"])
	assert.Equal(t, false, body["update_contact_phone_numbers"])

	assert.Equal(t, "CTO", contact.JobTitle)
}

func TestUpdateContact_RequiresID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.UpdateContact(context.Background(), ContactUpdate{})
	assert.Error(t, err)
}

func TestDeleteContact_UnwrapsEntity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		_, _ = w.Write([]byte(`{"delete_contacts_by_pk":{"id":"c1"}}`))
	})

	contact, err := client.DeleteContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", contact.ID)
}

func TestContactEntity_FallsBackToWholeBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"bare1","first_name":"Bare"}`))
	})

	contact, err := client.DeleteContact(context.Background(), "bare1")
	require.NoError(t, err)
	assert.Equal(t, "bare1", contact.ID)
	assert.Equal(t, "Bare", contact.FirstName)
}
