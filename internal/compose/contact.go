package compose

import (
	"bytes"
	"fmt"
	"strings"

	govcard "github.com/emersion/go-vcard"
	"github.com/google/uuid"

	"github.com/PhilflowIO/dav-mcp-sub001/pkg/vobject"
)

// ContactInput is the validated input for a new contact.
type ContactInput struct {
	UID           string // generated when empty
	FormattedName string
	FamilyName    string
	GivenName     string
	Organization  string
	Email         string
	Phone         string
	Note          string
}

// NewContactDocument builds a VERSION 4.0 vCard. FN is required by the RFC;
// when absent it is assembled from the structured name parts. Returns the UID
// actually used and the encoded text.
//
// Values are handed to go-vcard unescaped: its encoder owns the escaping
// (backslash, comma, newline) on Encode, so pre-escaping here would
// double-escape. The encoder does not fold, so the output runs through the
// 75-octet folder before it leaves.
func NewContactDocument(in ContactInput) (string, string, error) {
	fn := in.FormattedName
	if fn == "" {
		fn = strings.TrimSpace(strings.Join([]string{in.GivenName, in.FamilyName}, " "))
	}
	if fn == "" {
		return "", "", fmt.Errorf("contact needs a formatted name or name parts")
	}
	uid := in.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	card := make(govcard.Card)
	card.SetValue(govcard.FieldVersion, "4.0")
	card.SetValue(govcard.FieldUID, uid)
	card.SetValue(govcard.FieldFormattedName, fn)
	if in.FamilyName != "" || in.GivenName != "" {
		// N parts: family, given, additional, prefixes, suffixes. The part
		// separators must stay raw semicolons, which the encoder leaves
		// alone.
		card.SetValue(govcard.FieldName, strings.Join([]string{
			in.FamilyName, in.GivenName, "", "", "",
		}, ";"))
	}
	if in.Organization != "" {
		card.SetValue(govcard.FieldOrganization, in.Organization)
	}
	if in.Email != "" {
		card.SetValue(govcard.FieldEmail, in.Email)
	}
	if in.Phone != "" {
		card.SetValue(govcard.FieldTelephone, in.Phone)
	}
	if in.Note != "" {
		card.SetValue(govcard.FieldNote, in.Note)
	}

	var buf bytes.Buffer
	if err := govcard.NewEncoder(&buf).Encode(card); err != nil {
		return "", "", fmt.Errorf("encode contact document: %w", err)
	}
	return uid, foldDocument(buf.String()), nil
}

// foldDocument applies output folding to every physical line of an encoded
// document.
func foldDocument(doc string) string {
	trimmed := strings.TrimRight(doc, "\r\n")
	if trimmed == "" {
		return doc
	}
	lines := strings.Split(trimmed, "\r\n")
	for i, line := range lines {
		lines[i] = vobject.FoldLine(line)
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}
