package data

// EntryAccess is an entry together with whether the viewing user holds a
// read grant on it.
type EntryAccess struct {
	Entry
	Granted bool `db:"granted"`
}
