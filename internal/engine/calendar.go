package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// Generator renders the birthdays of a set of records as an iCalendar feed.
type Generator struct {
	Clock Clock

	// FormatSummary lets the command layer inject localized event titles.
	// age is zero for the year of birth.
	FormatSummary func(name string, age int) string
}

// Calendar builds a VCALENDAR with one all-day event per contact birthday for
// the previous, current and next year. It returns the encoded feed and the
// number of birthdays that fall today.
func (g *Generator) Calendar(ctx context.Context, records []*addressbook.Record, reminderTrigger string) ([]byte, int, error) {
	start := time.Now()
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ withBday, today int }{}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		entry, ok := NewBirthdayEntry(r, now)
		if !ok {
			continue
		}
		stats.withBday++

		if entry.IsToday(now) {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, entry.Name,
				config.LogKeyDOB, entry.DateOfBirth.Format(config.DateFormatFullDash))
		}

		for _, e := range g.createEvents(entry, ContactUID(r.Name()), reminderTrigger, now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		g.logSuccess(stats.withBday, stats.today)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats.withBday, stats.today)
	slog.Debug("Calendar rendered",
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), stats.today, nil
}

func (g *Generator) logSuccess(found, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, found),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// createEvents emits events for now.Year()-1 through now.Year()+1, skipping
// years before the contact was born. Titles carry no age when the year is unknown.
func (g *Generator) createEvents(entry BirthdayEntry, uidBase, reminderTrigger string, now time.Time) []*ical.Event {
	currentYear := now.Year()
	born := entry.DateOfBirth

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		age := 0
		if entry.YearKnown {
			if y < born.Year() {
				continue
			}
			age = y - born.Year()
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		summary := g.summary(entry.Name, age)
		event.Props.SetText(config.PropSummary, summary)

		// 29 February normalizes to 1 March in non-leap years, matching NextOccurrence.
		eventDate := time.Date(y, born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events
}

func (g *Generator) summary(name string, age int) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, age)
	}
	if age > 0 {
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
	return fmt.Sprintf(config.FallbackSummary, name)
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly; SetText would add VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
