package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

type handlerFunc func(a *App, ctx context.Context, args []string) (string, error)

type command struct {
	usage   string
	run     handlerFunc
	mutates bool // refreshes the served calendar on success
}

// commands is populated in init because some handlers refer back to the table.
var commands map[string]command

func init() {
	commands = map[string]command{
		config.CmdHello:        {"hello", (*App).cmdHello, false},
		config.CmdAdd:          {"add <name> <phone>", (*App).cmdAdd, true},
		config.CmdAddPhone:     {"add-phone <name> <phone1>,<phone2>", (*App).cmdAddPhone, true},
		config.CmdRemovePhone:  {"remove-phone <name> <phone>", (*App).cmdRemovePhone, true},
		config.CmdEditPhone:    {"edit-phone <name> <old phone> <new phone>", (*App).cmdEditPhone, true},
		config.CmdPhone:        {"phone <name>", (*App).cmdPhone, false},
		config.CmdGetPhone:     {"get-phone <name>", (*App).cmdPhone, false},
		config.CmdAddEmail:     {"add-email <name> <email>", setEmail(config.CmdAddEmail, config.TKeyEmailAdded), true},
		config.CmdChangeEmail:  {"change-email <name> <email>", setEmail(config.CmdChangeEmail, config.TKeyEmailChanged), true},
		config.CmdRemoveEmail:  {"remove-email <name>", (*App).cmdRemoveEmail, true},
		config.CmdAddBirthday:  {"add-birthday <name> <DD.MM.YYYY>", (*App).cmdAddBirthday, true},
		config.CmdShowBirthday: {"show-birthday <name>", (*App).cmdShowBirthday, false},
		config.CmdBirthdays:    {"birthdays", (*App).cmdBirthdays, false},
		config.CmdRemove:       {"remove <name>", (*App).cmdRemove, true},
		config.CmdAll:          {"all", (*App).cmdAll, false},
		config.CmdImport:       {"import <file|URL>", (*App).cmdImport, true},
		config.CmdExport:       {"export <file>", (*App).cmdExport, false},
		config.CmdCalendar:     {"calendar <file>", (*App).cmdCalendar, false},
		config.CmdServe:        {"serve [port]", (*App).cmdServe, false},
		config.CmdHelp:         {"help", (*App).cmdHelp, false},
	}
}

// usageError reports a wrong number or shape of arguments.
type usageError struct {
	usage string
	err   error
}

func (e *usageError) Error() string {
	if e.err != nil {
		return e.err.Error() + ": usage: " + e.usage
	}
	return "usage: " + e.usage
}

func (e *usageError) Unwrap() error { return e.err }

// Execute runs one input line and prints its outcome.
// It reports true when the session should end.
func (a *App) Execute(ctx context.Context, line string) bool {
	name, args, err := ParseInput(line)
	if err != nil {
		return a.reportParseError(line, err)
	}
	switch name {
	case "":
		return false
	case config.CmdClose, config.CmdExit:
		a.println(a.Tr.Msg(config.TKeyGoodbye, nil))
		return true
	}

	cmd, ok := commands[name]
	if !ok {
		a.println(a.Tr.Msg(config.TKeyInvalidCommand, nil))
		return false
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyCommand, name,
		config.LogKeyArgs, len(args),
	)

	out, err := a.dispatch(ctx, cmd, args)
	if err != nil {
		a.println(a.errorMessage(name, err))
		return false
	}
	if out != "" {
		a.println(out)
	}
	if cmd.mutates {
		a.publish(ctx)
	}
	return false
}

// reportParseError shows the usage of the command a malformed line started with.
func (a *App) reportParseError(line string, err error) bool {
	name := strings.ToLower(strings.Trim(strings.Fields(line)[0], `"'`))
	cmd, ok := commands[name]
	if !ok {
		a.println(a.Tr.Msg(config.TKeyInvalidCommand, nil))
		return false
	}
	a.println(a.errorMessage(name, &usageError{usage: cmd.usage, err: err}))
	return false
}

// dispatch runs the handler, converting a panic into an internal error.
func (a *App) dispatch(ctx context.Context, cmd command, args []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(config.MsgCommandPanic,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyValue, fmt.Sprint(r),
			)
			out, err = "", errInternal
		}
	}()
	return cmd.run(a, ctx, args)
}

var errInternal = errors.New("internal error")

// errorKeys maps every address book failure to its message.
var errorKeys = map[addressbook.ErrorKind]string{
	addressbook.InvalidName:           config.TKeyErrInvalidName,
	addressbook.InvalidPhoneFormat:    config.TKeyErrInvalidPhone,
	addressbook.InvalidEmailFormat:    config.TKeyErrInvalidEmail,
	addressbook.InvalidBirthdayFormat: config.TKeyErrInvalidBirthday,
	addressbook.RecordNotFound:        config.TKeyErrNotFound,
	addressbook.PhoneNotFound:         config.TKeyErrPhoneNotFound,
	addressbook.DuplicateName:         config.TKeyErrDuplicate,
}

// errorMessage turns err into the text shown to the user.
func (a *App) errorMessage(name string, err error) string {
	var ue *usageError
	var be *addressbook.Error

	switch {
	case errors.As(err, &ue):
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyCommand, name,
			config.LogKeyError, err,
		)
		return a.Tr.Msg(config.TKeyErrUsage, map[string]any{"Value": ue.usage})

	case errors.As(err, &be):
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyCommand, name,
			config.LogKeyKind, be.Kind.String(),
		)
		if key, ok := errorKeys[be.Kind]; ok {
			return a.Tr.Msg(key, map[string]any{"Value": be.Value})
		}
		return a.Tr.Msg(config.TKeyErrInternal, nil)

	case errors.Is(err, errInternal):
		return a.Tr.Msg(config.TKeyErrInternal, nil)

	default:
		slog.Warn(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyCommand, name,
			config.LogKeyError, err,
		)
		return a.Tr.Msg(config.TKeyErrIO, map[string]any{"Value": err.Error()})
	}
}

// wantArgs fails with a usage error unless exactly n arguments were given.
func wantArgs(args []string, n int, name string) error {
	if len(args) != n {
		return &usageError{usage: commands[name].usage}
	}
	return nil
}

// record looks up an existing contact by name.
func (a *App) record(name string) (*addressbook.Record, error) {
	if _, err := addressbook.NewName(name); err != nil {
		return nil, err
	}
	r, ok := a.Book.Find(name)
	if !ok {
		return nil, addressbook.NotFound(name)
	}
	return r, nil
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (a *App) cmdHello(_ context.Context, _ []string) (string, error) {
	return a.Tr.Msg(config.TKeyHello, nil), nil
}

func (a *App) cmdHelp(_ context.Context, _ []string) (string, error) {
	return a.Tr.Msg(config.TKeyHelp, nil), nil
}

// cmdAdd creates a contact, or appends the phone when the name already exists.
func (a *App) cmdAdd(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 2, config.CmdAdd); err != nil {
		return "", err
	}
	name, err := addressbook.NewName(args[0])
	if err != nil {
		return "", err
	}
	phone, err := addressbook.NewPhone(args[1])
	if err != nil {
		return "", err
	}

	if r, ok := a.Book.Find(name.String()); ok {
		r.AddPhone(phone)
		return a.Tr.Msg(config.TKeyContactUpdated, nil), nil
	}

	r := addressbook.NewRecord(name)
	r.AddPhone(phone)
	if err := a.Book.Add(r); err != nil {
		return "", err
	}
	return a.Tr.Msg(config.TKeyContactAdded, nil), nil
}

// cmdAddPhone validates every phone of the list before adding any of them.
func (a *App) cmdAddPhone(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 2, config.CmdAddPhone); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}

	var phones []addressbook.Phone
	for _, raw := range strings.Split(args[1], config.PhoneListSeparator) {
		p, err := addressbook.NewPhone(strings.TrimSpace(raw))
		if err != nil {
			return "", err
		}
		phones = append(phones, p)
	}
	for _, p := range phones {
		r.AddPhone(p)
	}
	return a.Tr.Msg(config.TKeyPhonesAdded, nil), nil
}

func (a *App) cmdRemovePhone(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 2, config.CmdRemovePhone); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	p, err := addressbook.NewPhone(args[1])
	if err != nil {
		return "", err
	}
	r.RemovePhone(p)
	return a.Tr.Msg(config.TKeyPhoneRemoved, nil), nil
}

func (a *App) cmdEditPhone(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 3, config.CmdEditPhone); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return a.Tr.Msg(config.TKeyPhoneChanged, nil), nil
}

func (a *App) cmdPhone(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdPhone); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	phones := r.Phones()
	if len(phones) == 0 {
		return a.Tr.Msg(config.TKeyNoPhones, nil), nil
	}
	return joinPhones(phones, ", "), nil
}

// setEmail backs both add-email and change-email; only the message differs.
func setEmail(name, okKey string) handlerFunc {
	return func(a *App, _ context.Context, args []string) (string, error) {
		if err := wantArgs(args, 2, name); err != nil {
			return "", err
		}
		r, err := a.record(args[0])
		if err != nil {
			return "", err
		}
		email, err := addressbook.NewEmail(args[1])
		if err != nil {
			return "", err
		}
		r.SetEmail(email)
		return a.Tr.Msg(okKey, nil), nil
	}
}

func (a *App) cmdRemoveEmail(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdRemoveEmail); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	r.ClearEmail()
	return a.Tr.Msg(config.TKeyEmailRemoved, nil), nil
}

func (a *App) cmdAddBirthday(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 2, config.CmdAddBirthday); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	b, err := addressbook.NewBirthday(args[1])
	if err != nil {
		return "", err
	}
	r.SetBirthday(b)
	return a.Tr.Msg(config.TKeyBirthdayAdded, nil), nil
}

func (a *App) cmdShowBirthday(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdShowBirthday); err != nil {
		return "", err
	}
	r, err := a.record(args[0])
	if err != nil {
		return "", err
	}
	b, ok := r.Birthday()
	if !ok {
		return a.Tr.Msg(config.TKeyNoBirthday, nil), nil
	}
	return b.String(), nil
}

// cmdBirthdays lists the upcoming week, weekdays ordered from today.
func (a *App) cmdBirthdays(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 0, config.CmdBirthdays); err != nil {
		return "", err
	}
	today := a.Clock.Now()
	upcoming := a.Book.UpcomingBirthdays(today)
	if upcoming.Len() == 0 {
		return a.Tr.Msg(config.TKeyNoUpcoming, nil), nil
	}

	var rows [][]string
	for _, day := range upcoming.Weekdays(today.Weekday()) {
		for _, r := range upcoming[day] {
			b, _ := r.Birthday()
			rows = append(rows, []string{a.Tr.Weekday(day), r.Name().String(), b.String()})
		}
	}
	headers := []string{
		a.Tr.Msg(config.TKeyColWeekday, nil),
		a.Tr.Msg(config.TKeyColName, nil),
		a.Tr.Msg(config.TKeyColBirthday, nil),
	}
	return renderTable(headers, rows, a.styled), nil
}

// cmdRemove deletes a contact. Removing an unknown name is not an error.
func (a *App) cmdRemove(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdRemove); err != nil {
		return "", err
	}
	if _, err := addressbook.NewName(args[0]); err != nil {
		return "", err
	}
	a.Book.Delete(args[0])
	return a.Tr.Msg(config.TKeyRemoved, nil), nil
}

func (a *App) cmdAll(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 0, config.CmdAll); err != nil {
		return "", err
	}
	if a.Book.Len() == 0 {
		return a.Tr.Msg(config.TKeyNoRecords, nil), nil
	}

	var rows [][]string
	for _, r := range a.Book.Records() {
		var email, bday string
		if e, ok := r.Email(); ok {
			email = e.String()
		}
		if b, ok := r.Birthday(); ok {
			bday = b.String()
		}
		rows = append(rows, []string{r.Name().String(), joinPhones(r.Phones(), ", "), email, bday})
	}
	headers := []string{
		a.Tr.Msg(config.TKeyColName, nil),
		a.Tr.Msg(config.TKeyColPhones, nil),
		a.Tr.Msg(config.TKeyColEmail, nil),
		a.Tr.Msg(config.TKeyColBirthday, nil),
	}
	return renderTable(headers, rows, a.styled), nil
}

// cmdImport adds the contacts of a vCard file or URL. Names already in the
// book are skipped.
func (a *App) cmdImport(ctx context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdImport); err != nil {
		return "", err
	}
	src := engine.Source{Location: args[0]}
	if src.IsRemote() && a.Settings.WebUser != "" {
		src.User = a.Settings.WebUser
		src.Pass = webPassword(a.Settings.WebUser)
	}

	rc, err := a.Loader.Open(ctx, src)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	records, stats, err := engine.DecodeContacts(ctx, rc)
	if err != nil {
		return "", err
	}

	added, skipped := 0, stats.Malformed+stats.Unnamed
	for _, r := range records {
		if err := a.Book.Add(r); err != nil {
			skipped++
			continue
		}
		added++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyAdded, added,
		config.LogKeySkipped, skipped,
	)
	return a.Tr.Msg(config.TKeyImported, map[string]any{"Added": added, "Skipped": skipped}), nil
}

func (a *App) cmdExport(_ context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdExport); err != nil {
		return "", err
	}
	path := withExt(args[0], config.ExtVCF)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}

	records := a.Book.Records()
	if err := engine.EncodeContacts(f, records); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}
	return a.Tr.Msg(config.TKeyExported, map[string]any{"Count": len(records), "Path": path}), nil
}

func (a *App) cmdCalendar(ctx context.Context, args []string) (string, error) {
	if err := wantArgs(args, 1, config.CmdCalendar); err != nil {
		return "", err
	}
	path := withExt(args[0], config.ExtICS)
	records := a.Book.Records()
	data, today, err := a.Generator.Calendar(ctx, records, a.Settings.ReminderTrigger)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}

	count := 0
	for _, r := range records {
		if _, ok := r.Birthday(); ok {
			count++
		}
	}
	return a.withTodayNotice(a.Tr.Msg(config.TKeyCalendarSaved, map[string]any{"Count": count, "Path": path}), today), nil
}

// cmdServe starts the calendar feed in the background. The console stays
// usable and every change to the book refreshes the served snapshot.
func (a *App) cmdServe(ctx context.Context, args []string) (string, error) {
	if len(args) > 1 {
		return "", &usageError{usage: commands[config.CmdServe].usage}
	}
	if a.serving != nil {
		return a.Tr.Msg(config.TKeyAlreadyServing, map[string]any{"URL": a.serving.url}), nil
	}

	port := a.Settings.ServerPort
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 || p > 65535 {
			return "", &usageError{usage: commands[config.CmdServe].usage}
		}
		port = p
	}

	feedCtx, cancel := context.WithCancel(ctx)
	f := &feed{
		pub:    a.NewPublisher(port),
		url:    fmt.Sprintf(config.FormatServeURL, config.LocalhostBindAddr, port, config.RouteCalendar),
		cancel: cancel,
		done:   make(chan error, config.ChannelBufferSize),
	}
	a.serving = f
	today := a.publish(ctx)

	go func() {
		f.done <- f.pub.Start(feedCtx)
	}()

	return a.withTodayNotice(a.Tr.Msg(config.TKeyServing, map[string]any{"URL": f.url}), today), nil
}

// withTodayNotice appends the number of birthdays falling today, if any.
func (a *App) withTodayNotice(msg string, today int) string {
	if today == 0 {
		return msg
	}
	return msg + "\n" + a.Tr.Msg(config.TKeyBirthdaysToday, map[string]any{"Count": today})
}

// withExt appends ext to paths that have no extension.
func withExt(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + ext
	}
	return path
}

func joinPhones(phones []addressbook.Phone, sep string) string {
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}
