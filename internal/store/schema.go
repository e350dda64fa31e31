package store

// Schema notes:
//
//   - contacts carries both raw API fields and columns derived at
//     save time (name_given/name_surname/name_parsed from the display
//     name, company/role from the job title, birthday from the
//     payload). Derived columns exist so detection queries never
//     parse JSON.
//   - record_hash on contacts, reminders, and notes gates writes:
//     an unchanged hash means the row (and its children) are not
//     touched, which preserves duplicate_group_id,
//     duplicate_resolution, and primary_contact_id across syncs.
//   - Foreign keys are declarative only; enforcement stays off so
//     pages can be applied in any order during a sync.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    job_title TEXT,
    linkedin TEXT,
    website TEXT,
    birthday TEXT,
    full_data JSON,
    record_hash TEXT,
    last_synced_at TIMESTAMP,
    duplicate_group_id TEXT,
    duplicate_resolution TEXT,
    primary_contact_id TEXT,
    name_given TEXT,
    name_surname TEXT,
    name_parsed JSON,
    company TEXT,
    role TEXT
);

CREATE TABLE IF NOT EXISTS emails (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    contact_id TEXT NOT NULL,
    email TEXT NOT NULL,
    FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE TABLE IF NOT EXISTS phones (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    contact_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    label TEXT,
    FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE TABLE IF NOT EXISTS reminders (
    id TEXT PRIMARY KEY,
    body TEXT,
    is_complete BOOLEAN,
    due_date TEXT,
    full_data JSON,
    record_hash TEXT,
    last_synced_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reminder_contacts (
    reminder_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    PRIMARY KEY (reminder_id, contact_id),
    FOREIGN KEY (reminder_id) REFERENCES reminders(id),
    FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    note TEXT,
    event_time TIMESTAMP,
    full_data JSON,
    record_hash TEXT,
    last_synced_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS note_contacts (
    note_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    PRIMARY KEY (note_id, contact_id),
    FOREIGN KEY (note_id) REFERENCES notes(id),
    FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE INDEX IF NOT EXISTS idx_emails_contact_id ON emails(contact_id);
CREATE INDEX IF NOT EXISTS idx_emails_email_lower ON emails(lower(email));
CREATE INDEX IF NOT EXISTS idx_phones_contact_id ON phones(contact_id);
CREATE INDEX IF NOT EXISTS idx_phones_number ON phones(phone_number);
CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(first_name, last_name);
CREATE INDEX IF NOT EXISTS idx_contacts_job_title ON contacts(job_title);
CREATE INDEX IF NOT EXISTS idx_contacts_hash ON contacts(record_hash);
CREATE INDEX IF NOT EXISTS idx_contacts_duplicate_group ON contacts(duplicate_group_id);
CREATE INDEX IF NOT EXISTS idx_contacts_linkedin ON contacts(linkedin);
CREATE INDEX IF NOT EXISTS idx_contacts_website ON contacts(website);
CREATE INDEX IF NOT EXISTS idx_reminder_contacts_reminder ON reminder_contacts(reminder_id);
CREATE INDEX IF NOT EXISTS idx_reminder_contacts_contact ON reminder_contacts(contact_id);
CREATE INDEX IF NOT EXISTS idx_note_contacts_note ON note_contacts(note_id);
CREATE INDEX IF NOT EXISTS idx_note_contacts_contact ON note_contacts(contact_id);
CREATE INDEX IF NOT EXISTS idx_reminders_hash ON reminders(record_hash);
CREATE INDEX IF NOT EXISTS idx_notes_hash ON notes(record_hash);
`

const schemaVersion = 1

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion)
	return err
}
