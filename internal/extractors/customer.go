package extractors

import (
	"regexp"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
)

var (
	customerNameRe = regexp.MustCompile(`\b(Mr|Mrs|Ms|Miss|Dr)\.?\s+([A-Z][A-Za-z'-]+)`)
	emailRe        = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	phoneRe        = regexp.MustCompile(`(?:\+44\s?\d{4}|\b0\d{4})\s?\d{3}\s?\d{3}\b`)
	// Postcodes are matched upper case only; lower-case letter/digit runs are
	// too common in dictated measurements.
	postcodeRe = regexp.MustCompile(`\b([A-Z]{1,2}\d[A-Z\d]?)\s*(\d[A-Z]{2})\b`)
)

// Customer extracts contact details: title and surname, phone, email and UK
// postcode.
type Customer struct{}

func (Customer) Name() string { return "customer" }

func (Customer) Extract(text string, into *facts.Data) {
	var c facts.Customer
	found := false

	if m := customerNameRe.FindStringSubmatch(text); m != nil {
		c.Name = facts.String(m[1] + " " + m[2])
		found = true
	}
	if m := phoneRe.FindString(text); m != "" {
		c.Phone = facts.String(strings.TrimSpace(m))
		found = true
	}
	if m := emailRe.FindString(text); m != "" {
		c.Email = facts.String(strings.ToLower(m))
		found = true
	}
	if m := postcodeRe.FindStringSubmatch(text); m != nil {
		c.Postcode = facts.String(m[1] + " " + m[2])
		found = true
	}

	if found {
		into.Customer = &c
	}
}
