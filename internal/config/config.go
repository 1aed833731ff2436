package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote vCard imports.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AddressBook"
	AppID             = "com.github.tartampluch.go-addressbook"
	KeyringService    = "com.github.tartampluch.go-addressbook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Console Commands
// -----------------------------------------------------------------------------

const (
	CmdHello        = "hello"
	CmdAdd          = "add"
	CmdAddPhone     = "add-phone"
	CmdRemovePhone  = "remove-phone"
	CmdEditPhone    = "edit-phone"
	CmdPhone        = "phone"
	CmdGetPhone     = "get-phone"
	CmdAddEmail     = "add-email"
	CmdChangeEmail  = "change-email"
	CmdRemoveEmail  = "remove-email"
	CmdAddBirthday  = "add-birthday"
	CmdShowBirthday = "show-birthday"
	CmdBirthdays    = "birthdays"
	CmdRemove       = "remove"
	CmdAll          = "all"
	CmdImport       = "import"
	CmdExport       = "export"
	CmdCalendar     = "calendar"
	CmdServe        = "serve"
	CmdHelp         = "help"
	CmdClose        = "close"
	CmdExit         = "exit"

	// PhoneListSeparator splits the phone argument of add-phone.
	PhoneListSeparator = ","
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome        = "msg_welcome"
	TKeyGoodbye        = "msg_goodbye"
	TKeyPrompt         = "msg_prompt"
	TKeyHello          = "msg_hello"
	TKeyHelp           = "msg_help"
	TKeyInvalidCommand = "msg_invalid_command"
	TKeyContactAdded   = "msg_contact_added"
	TKeyContactUpdated = "msg_contact_updated"
	TKeyPhonesAdded    = "msg_phones_added"
	TKeyPhoneRemoved   = "msg_phone_removed"
	TKeyPhoneChanged   = "msg_phone_changed"
	TKeyNoPhones       = "msg_no_phones"
	TKeyEmailAdded     = "msg_email_added"
	TKeyEmailChanged   = "msg_email_changed"
	TKeyEmailRemoved   = "msg_email_removed"
	TKeyBirthdayAdded  = "msg_birthday_added"
	TKeyNoBirthday     = "msg_no_birthday"
	TKeyRemoved        = "msg_removed"
	TKeyNoUpcoming     = "msg_no_upcoming"
	TKeyNoRecords      = "msg_no_records"
	TKeyImported       = "msg_imported"        // Requires Added, Skipped
	TKeyExported       = "msg_exported"        // Requires Count, Path
	TKeyCalendarSaved  = "msg_calendar_saved"  // Requires Count, Path
	TKeyServing        = "msg_serving"         // Requires URL
	TKeyBirthdaysToday = "msg_birthdays_today" // Requires Count
	TKeyServeStopped   = "msg_serve_stopped"
	TKeyServeFailed    = "msg_serve_failed"    // Requires Value
	TKeyAlreadyServing = "msg_already_serving" // Requires URL

	// Column Headers
	TKeyColName     = "col_name"
	TKeyColPhones   = "col_phones"
	TKeyColEmail    = "col_email"
	TKeyColBirthday = "col_birthday"
	TKeyColWeekday  = "col_weekday"

	// Calendar event summaries
	TKeyEvtSummary    = "event_summary"     // Requires Name
	TKeyEvtSummaryAge = "event_summary_age" // Requires Name, Age

	// Errors shown to the user
	TKeyErrUsage           = "err_usage"            // Requires Value
	TKeyErrInvalidName     = "err_invalid_name"     // Requires Value
	TKeyErrInvalidPhone    = "err_invalid_phone"    // Requires Value
	TKeyErrInvalidEmail    = "err_invalid_email"    // Requires Value
	TKeyErrInvalidBirthday = "err_invalid_birthday" // Requires Value
	TKeyErrNotFound        = "err_not_found"        // Requires Value
	TKeyErrPhoneNotFound   = "err_phone_not_found"  // Requires Value
	TKeyErrDuplicate       = "err_duplicate"        // Requires Value
	TKeyErrInternal        = "err_internal"
	TKeyErrIO              = "err_io" // Requires Value
)

// WeekdayKeys maps time.Weekday (Sunday = 0) to its translation key.
var WeekdayKeys = [7]string{
	"weekday_sunday",
	"weekday_monday",
	"weekday_tuesday",
	"weekday_wednesday",
	"weekday_thursday",
	"weekday_friday",
	"weekday_saturday",
}

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort            = 18080
	DefaultLanguage        = "en"
	DefaultReminderTrigger = "-P1D"
	UIDNamespace           = "go-addressbook.contacts"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AddressBook//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goaddressbook"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	FormatUID = "%s-%d@%s"

	// FormatServeURL expects host, port and route.
	FormatServeURL = "http://%s:%d%s"

	// MaxMalformedCards aborts an import whose stream keeps failing to decode.
	MaxMalformedCards = 100

	ExtVCF = ".vcf"
	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteCalendar       = "/birthdays.ics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrSourceEmpty    = "configuration error: import source is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrVCardEncode    = "failed to encode vCard data"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrWriteFile      = "failed to write output file"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrSettingsLoad   = "failed to load settings"
	ErrSettingsValid  = "invalid settings"
	ErrReadInput      = "failed to read console input"
	ErrParseInput     = "failed to parse console line"
	ErrShellOperator  = "unquoted operator at position"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"

	MsgAppStop       = "Application stopped gracefully"
	MsgCtxCancel     = "Context cancelled, leaving command loop"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedPhone  = "Skipping invalid phone number"
	MsgSkippedEmail  = "Skipping invalid email address"
	MsgSkippedName   = "Skipping card without a usable name"
	MsgImportDone    = "vCard import finished"
	MsgExportDone    = "vCard export finished"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgRequest       = "HTTP request served"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgCommand       = "Command dispatched"
	MsgCommandFailed = "Command failed"
	MsgCommandPanic  = "Command panicked"
	MsgServeEnded    = "Calendar feed stopped"
	MsgPublishFailed = "Calendar snapshot not refreshed"
	MsgBdayToday     = "Birthday found today"
	MsgSettings      = "Settings loaded"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyUser      = "user"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyCommand   = "command"
	LogKeyArgs      = "args"
	LogKeyKind      = "kind"
	LogKeyTotal     = "total_cards"
	LogKeyAdded     = "added"
	LogKeySkipped   = "skipped"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompCLI     = "cli"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
)
