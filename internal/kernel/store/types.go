package store

// Special device ids (§3 DATA MODEL).
const (
	LocalDeviceID = 0
	NullDeviceID  = -1
)

// DeviceStatus is the online/offline state of a Device row.
type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "ONLINE"
	DeviceOffline DeviceStatus = "OFFLINE"
)

// Device is a peer of this account, or (id=0) this process itself.
type Device struct {
	ID            int64
	UUID          string
	Name          string
	RoutePort     int
	DataPort      int
	Status        DeviceStatus
	DeviceType    string
	IsMine        bool
	BackupDstRoot string
	Version       string
	TokenSHA1     []byte
}

// DeviceIP is one network endpoint of a Device.
type DeviceIP struct {
	ID                      int64
	DeviceID                int64
	IP                      string
	IsIPv6                  bool
	EarliestNoResponseTime  *int64 // unix nanos; nil means "healthy"
}

// SyncType distinguishes ordinary, shared, and backup syncs.
type SyncType string

const (
	SyncNormal SyncType = "NORMAL"
	SyncShared SyncType = "SHARED"
	SyncBackup SyncType = "BACKUP"
)

// SyncStatus is the lifecycle state of a Sync row.
type SyncStatus string

const (
	SyncStatusNormal  SyncStatus = "NORMAL"
	SyncStatusRemoved SyncStatus = "REMOVED"
	SyncStatusVClock  SyncStatus = "VCLOCK"
)

// SyncPerm is the permission a creator grants a peer (or itself) over a Sync.
type SyncPerm string

const (
	PermReadOnly   SyncPerm = "RDONLY"
	PermWriteOnly  SyncPerm = "WRONLY"
	PermReadWrite  SyncPerm = "RDWR"
	PermDisconnect SyncPerm = "DISCONNECT"
	PermTokenDiff  SyncPerm = "TOKEN_DIFF"
)

// Sync is a named synchronization relationship between one or more Trees.
type Sync struct {
	ID               int64
	UUID             string
	Name             string
	LastSync         int64
	Type             SyncType
	Status           SyncStatus
	DeviceID         int64 // creator; NullDeviceID until assigned
	Permission       SyncPerm
	RestoreSharePerm string
}

// TreeStatus is the lifecycle state of a Tree row.
type TreeStatus string

const (
	TreeStatusNormal TreeStatus = "NORMAL"
	TreeStatusRemove TreeStatus = "REMOVE"
	TreeStatusVClock TreeStatus = "VCLOCK"
)

// BackupType distinguishes backup source and destination trees.
type BackupType string

const (
	BackupNone BackupType = "NONE"
	BackupSrc  BackupType = "SRC"
	BackupDst  BackupType = "DST"
)

// SyncMode controls when a tree pair auto-syncs.
type SyncModeKind string

const (
	SyncModeAuto   SyncModeKind = "AUTO"
	SyncModeManual SyncModeKind = "MANUAL"
	SyncModeTimer  SyncModeKind = "TIMER"
)

// RootStatus reflects whether a Tree's local root directory is present.
type RootStatus string

const (
	RootNormal  RootStatus = "NORMAL"
	RootRemoved RootStatus = "REMOVED"
)

// Tree is one participating directory root within a Sync.
type Tree struct {
	ID         int64
	UUID       string
	Root       string
	DeviceID   int64
	SyncID     int64
	Status     TreeStatus
	LastFind   int64
	LastUSN    int64
	BackupType BackupType
	IsEnabled  bool
	SyncMode   SyncModeKind
	RootStatus RootStatus
}

// FileType distinguishes regular files from directories in the per-tree
// file table.
type FileType string

const (
	FileTypeRegular FileType = "REG"
	FileTypeDir     FileType = "DIR"
)

// FileEntryStatus is NORMAL or a tombstone.
type FileEntryStatus string

const (
	FileStatusNormal FileEntryStatus = "NORMAL"
	FileStatusRemove FileEntryStatus = "REMOVE"
)

// File is one row of a per-tree file table (table name derived from the
// tree's uuid, see FileTableName). LocalVClock and RemoteVClock together
// form this side's version vector for the path (§3, §4.7 RECONCILE compares
// (local_vclock, remote_vclock) pairs across the two sides of a sync).
type File struct {
	ID           int64
	Path         string
	Type         FileType
	Status       FileEntryStatus
	Mtime        int64
	Length       int64
	USN          int64
	SHA1         []byte
	Modifier     string
	WinAttr      int64
	UnixAttr     int64
	LocalVClock  int64
	RemoteVClock int64
	Alias        string
	TimeStamp    int64
}

// SyncListEntry is one selective-sync filter entry for a tree.
type SyncListEntry struct {
	ID     int64
	TreeID int64
	Path   string
}

// SyncModeRow configures auto-sync behavior for one (local, remote) tree pair.
type SyncModeRow struct {
	LocalTreeID  int64
	RemoteTreeID int64
	Mode         SyncModeKind
	SyncTimeInS  int64
}

// ShareSync records the permission a creator granted one peer over a Sync.
type ShareSync struct {
	DeviceID int64
	SyncID   int64
	SyncPerm SyncPerm
}

// DHTPeer is a cached discovery result.
type DHTPeer struct {
	InfoHash   []byte
	PeerHost   string
	PeerPort   int
	PeerIsIPv6 bool
	IsLAN      bool
	LastSeen   int64
}

// Favourite marks a path within a tree as selectively synced (§6 AddFavorite).
type Favourite struct {
	ID     int64
	TreeID int64
	Path   string
}
