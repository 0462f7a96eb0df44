package mem

// Prot is the access permission of a region.
type Prot uint8

const (
	ReadOnly Prot = iota
	ReadWrite
	ReadExecute
	ReadWriteExecute
)

// ProtFor maps an {executable, writable} request to a permission.
func ProtFor(executable, writable bool) Prot {
	switch {
	case executable && writable:
		return ReadWriteExecute
	case executable:
		return ReadExecute
	case writable:
		return ReadWrite
	default:
		return ReadOnly
	}
}

func (p Prot) Writable() bool   { return p == ReadWrite || p == ReadWriteExecute }
func (p Prot) Executable() bool { return p == ReadExecute || p == ReadWriteExecute }

func (p Prot) String() string {
	switch p {
	case ReadOnly:
		return "r--"
	case ReadWrite:
		return "rw-"
	case ReadExecute:
		return "r-x"
	case ReadWriteExecute:
		return "rwx"
	}
	return "???"
}
