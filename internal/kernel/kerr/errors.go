// Package kerr defines the engine-wide error taxonomy. Every error that
// crosses a Kernel API boundary is either one of these sentinels (checked
// with errors.Is) or an *Error wrapping one with operation context.
package kerr

import "errors"

// Code identifies a taxonomy entry. The numeric value is stable across
// releases because it is surfaced to CLI/mobile wrappers.
type Code int

// Configuration errors.
const (
	BadPath Code = iota + 1
	InvalidPort
	AddrInUse
	DirNoent
	NotStartup
	Config
)

// Entity errors.
const (
	SyncNoent Code = iota + 100
	SyncCreatorExist
	NotSyncCreator
	TreeNoent
	TreeExist
	BackupSrcExist
	BackupDstExist
	DeviceNoent
	FavouriteExist
	FavouriteNoent
	DiscoverNoent
	DiscoverLimit
	SyncListExist
	SyncListNoent
	ShareSyncDisconnect
)

// I/O and network errors.
const (
	OSSocket Code = iota + 200
	OSIO
	OSThread
	OSTimer
	Timeout
	HTTPReturnError
)

// Protocol errors.
const (
	InvalidMsg Code = iota + 300
	VersionIncompatible
	PermissionDeny
	CDKey
)

// Integrity errors.
const (
	Cipher Code = iota + 400
	Content
	SQLite
	General
)

// Sentinel errors, one per taxonomy entry (§7). Use errors.Is against
// these; *Error.Unwrap() returns the matching sentinel.
var (
	ErrBadPath             = errors.New("kerr: bad path")
	ErrInvalidPort         = errors.New("kerr: invalid port")
	ErrAddrInUse           = errors.New("kerr: address in use")
	ErrDirNoent            = errors.New("kerr: directory does not exist")
	ErrNotStartup          = errors.New("kerr: engine not started")
	ErrConfig              = errors.New("kerr: configuration error")
	ErrSyncNoent           = errors.New("kerr: sync does not exist")
	ErrSyncCreatorExist    = errors.New("kerr: sync already has a creator")
	ErrNotSyncCreator      = errors.New("kerr: not the sync creator")
	ErrTreeNoent           = errors.New("kerr: tree does not exist")
	ErrTreeExist           = errors.New("kerr: tree already exists")
	ErrBackupSrcExist      = errors.New("kerr: backup source tree already exists")
	ErrBackupDstExist      = errors.New("kerr: backup destination tree already exists")
	ErrDeviceNoent         = errors.New("kerr: device does not exist")
	ErrFavouriteExist      = errors.New("kerr: favourite already exists")
	ErrFavouriteNoent      = errors.New("kerr: favourite does not exist")
	ErrDiscoverNoent       = errors.New("kerr: discovered device not found")
	ErrDiscoverLimit       = errors.New("kerr: discovery limit reached")
	ErrSyncListExist       = errors.New("kerr: sync list entry already exists")
	ErrSyncListNoent       = errors.New("kerr: sync list entry does not exist")
	ErrShareSyncDisconnect = errors.New("kerr: share sync is disconnected")
	ErrOSSocket            = errors.New("kerr: socket error")
	ErrOSIO                = errors.New("kerr: I/O error")
	ErrOSThread            = errors.New("kerr: thread error")
	ErrOSTimer             = errors.New("kerr: timer error")
	ErrTimeout             = errors.New("kerr: timeout")
	ErrHTTPReturnError     = errors.New("kerr: HTTP error response")
	ErrInvalidMsg          = errors.New("kerr: invalid message")
	ErrVersionIncompatible = errors.New("kerr: protocol version incompatible")
	ErrPermissionDeny      = errors.New("kerr: permission denied")
	ErrCDKey               = errors.New("kerr: invalid CD key")
	ErrCipher              = errors.New("kerr: cipher error")
	ErrContent             = errors.New("kerr: content integrity error")
	ErrSQLite              = errors.New("kerr: sqlite error")
	ErrGeneral             = errors.New("kerr: general error")
)

var sentinelByCode = map[Code]error{
	BadPath:             ErrBadPath,
	InvalidPort:         ErrInvalidPort,
	AddrInUse:           ErrAddrInUse,
	DirNoent:            ErrDirNoent,
	NotStartup:          ErrNotStartup,
	Config:              ErrConfig,
	SyncNoent:           ErrSyncNoent,
	SyncCreatorExist:    ErrSyncCreatorExist,
	NotSyncCreator:      ErrNotSyncCreator,
	TreeNoent:           ErrTreeNoent,
	TreeExist:           ErrTreeExist,
	BackupSrcExist:      ErrBackupSrcExist,
	BackupDstExist:      ErrBackupDstExist,
	DeviceNoent:         ErrDeviceNoent,
	FavouriteExist:      ErrFavouriteExist,
	FavouriteNoent:      ErrFavouriteNoent,
	DiscoverNoent:       ErrDiscoverNoent,
	DiscoverLimit:       ErrDiscoverLimit,
	SyncListExist:       ErrSyncListExist,
	SyncListNoent:       ErrSyncListNoent,
	ShareSyncDisconnect: ErrShareSyncDisconnect,
	OSSocket:            ErrOSSocket,
	OSIO:                ErrOSIO,
	OSThread:            ErrOSThread,
	OSTimer:             ErrOSTimer,
	Timeout:             ErrTimeout,
	HTTPReturnError:     ErrHTTPReturnError,
	InvalidMsg:          ErrInvalidMsg,
	VersionIncompatible: ErrVersionIncompatible,
	PermissionDeny:      ErrPermissionDeny,
	CDKey:               ErrCDKey,
	Cipher:              ErrCipher,
	Content:             ErrContent,
	SQLite:              ErrSQLite,
	General:             ErrGeneral,
}

// Error wraps a taxonomy sentinel with the operation that produced it and an
// optional underlying cause. It is the shape every Kernel API method returns
// so that callers can both errors.Is(err, kerr.ErrTreeNoent) and read a
// human-readable Op/Err for logs.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	sentinel := sentinelByCode[e.Code]

	if e.Err != nil && e.Err != sentinel { //nolint:errorlint // identity compare against the package sentinel map
		return e.Op + ": " + sentinel.Error() + ": " + e.Err.Error()
	}

	return e.Op + ": " + sentinel.Error()
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}

	return sentinelByCode[e.Code]
}

// Wrap builds an *Error for the given code, attaching op as context and err
// (if non-nil) as the wrapped cause. Every Kernel API method that surfaces a
// taxonomy error funnels it through Wrap so the Code is always set correctly.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Is reports whether err carries the given taxonomy code, either because it
// is an *Error with that code or because it matches the code's sentinel
// directly via errors.Is.
func Is(err error, code Code) bool {
	var kerrErr *Error
	if errors.As(err, &kerrErr) {
		return kerrErr.Code == code
	}

	return errors.Is(err, sentinelByCode[code])
}
