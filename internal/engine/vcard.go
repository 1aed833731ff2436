package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// ImportStats summarizes a vCard decode run.
type ImportStats struct {
	Cards     int // cards read successfully
	Malformed int // cards the decoder could not read
	Unnamed   int // cards dropped for lacking a usable name
}

// phoneSeparators are stripped from TEL values before validation.
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(config.UIDNamespace))

// DecodeContacts reads every card from r and converts it into a record.
// Malformed cards and invalid field values are logged and skipped so that one
// bad entry does not abort the whole import.
func DecodeContacts(ctx context.Context, r io.Reader) ([]*addressbook.Record, ImportStats, error) {
	decoder := vcard.NewDecoder(r)
	var stats ImportStats
	var records []*addressbook.Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Malformed++
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			if stats.Malformed > config.MaxMalformedCards {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			continue
		}
		stats.Cards++

		rec, ok := recordFromCard(card)
		if !ok {
			stats.Unnamed++
			continue
		}
		records = append(records, rec)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Cards),
			slog.Int(config.LogKeyAdded, len(records)),
			slog.Int(config.LogKeySkipped, stats.Malformed+stats.Unnamed),
		),
	)
	return records, stats, nil
}

// recordFromCard maps FN (or N), TEL, EMAIL and BDAY onto a record.
func recordFromCard(card vcard.Card) (*addressbook.Record, bool) {
	name, err := addressbook.NewName(cardName(card))
	if err != nil {
		slog.Debug(config.MsgSkippedName, config.LogKeyComponent, config.CompEngine)
		return nil, false
	}
	rec := addressbook.NewRecord(name)
	log := slog.With(config.LogKeyComponent, config.CompEngine, config.LogKeyName, name.String())

	for _, tel := range card.Values(vcard.FieldTelephone) {
		raw := phoneSeparators.Replace(strings.TrimPrefix(tel, "tel:"))
		phone, err := addressbook.NewPhone(raw)
		if err != nil {
			log.Debug(config.MsgSkippedPhone, config.LogKeyValue, tel)
			continue
		}
		if !rec.HasPhone(phone) {
			rec.AddPhone(phone)
		}
	}

	if raw := card.PreferredValue(vcard.FieldEmail); raw != "" {
		if email, err := addressbook.NewEmail(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			rec.SetEmail(email)
		} else {
			log.Debug(config.MsgSkippedEmail, config.LogKeyValue, raw)
		}
	}

	if raw := card.Value(vcard.FieldBirthday); raw != "" {
		if bday, err := parseBirthday(raw); err == nil {
			rec.SetBirthday(bday)
		} else {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, raw)
		}
	}
	return rec, true
}

// cardName prefers the formatted name, then the structured one.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
	}
	return ""
}

// parseBirthday handles the vCard BDAY forms seen in the wild, including
// dates without a year such as --0615.
func parseBirthday(value string) (addressbook.Birthday, error) {
	formatsWithYear := []string{
		config.DateFormatFullBasic,
		config.DateFormatFullDash,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return addressbook.BirthdayFromDate(t), nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearB, config.DateFormatNoYearD} {
		// Year 0 is a leap year for time.Parse, so --0229 stays valid.
		if t, err := time.Parse(f, value); err == nil {
			return addressbook.BirthdayWithoutYear(t.Month(), t.Day()), nil
		}
	}
	return addressbook.Birthday{}, errors.New(config.ErrDateParse)
}

// ContactUID is a stable UUIDv5 derived from the case-folded contact name.
func ContactUID(name addressbook.Name) string {
	return uuid.NewSHA1(uidNamespace, []byte(strings.ToLower(name.String()))).String()
}

// EncodeContacts writes records as vCard 4.0 cards in book order.
func EncodeContacts(w io.Writer, records []*addressbook.Record) error {
	enc := vcard.NewEncoder(w)
	for _, r := range records {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, r.Name().String())
		card.SetValue(vcard.FieldUID, "urn:uuid:"+ContactUID(r.Name()))
		for _, p := range r.Phones() {
			card.AddValue(vcard.FieldTelephone, p.String())
		}
		if email, ok := r.Email(); ok {
			card.SetValue(vcard.FieldEmail, email.String())
		}
		if bday, ok := r.Birthday(); ok {
			layout := config.DateFormatFullBasic
			if !bday.HasYear() {
				layout = config.DateFormatNoYearB
			}
			card.SetValue(vcard.FieldBirthday, bday.Date().Format(layout))
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(records),
	)
	return nil
}
