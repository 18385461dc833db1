package handlers_test

import (
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"

	"signcraft/internal/mail"
	"signcraft/internal/repos"
)

// openTestDB gives a fully migrated and seeded in-memory database.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// fakeSender records outbound mail instead of dialing SMTP.
type fakeSender struct {
	sent []mail.Message
	fail error
}

func (f *fakeSender) Send(m mail.Message) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, m)
	return nil
}
