package bufferpool

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// memfdCreate creates an anonymous shared-memory file (close-on-exec, not
// sealable) suitable
// for wl_shm_create_pool, the same mechanism every Wayland client uses in
// place of POSIX shm_open+O_TMPFILE dances.
func memfdCreate(name string) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	return os.NewFile(uintptr(fd), name), nil
}
