package cow

// UnsyncFlag tracks ownership with a plain bool. It must only be used by
// pointers confined to a single goroutine; concurrent access is a data
// race by construction.
type UnsyncFlag struct {
	owned bool
}

func NewUnsyncFlag(owned bool) *UnsyncFlag {
	return &UnsyncFlag{owned: owned}
}

func (f *UnsyncFlag) Acquire(clone func() error) error {
	if f.owned {
		return nil
	}
	if err := clone(); err != nil {
		return err
	}
	// Set only after clone succeeds, so an error or panic leaves the
	// flag as if the attempt never started.
	f.owned = true
	return nil
}

func (f *UnsyncFlag) SetOwned(owned bool) {
	f.owned = owned
}

func (f *UnsyncFlag) Owned() bool {
	return f.owned
}
