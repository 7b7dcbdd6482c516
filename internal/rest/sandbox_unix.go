//go:build linux || darwin

// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// Confines the server process before it accepts requests: changes the
// filesystem root (requires root) and drops to the given user ID.
// Empty chroot and negative setuid skip the respective step.
func MakeSandbox(log io.Writer, chroot string, setuid int) error {
	if len(chroot) > 0 {
		fmt.Fprintf(log, "Changing filesystem root to %s...\n", chroot)
		if err := syscall.Chroot(chroot); err != nil {
			return errors.Wrapf(err, "chroot(%s)", chroot)
		}
		if err := os.Chdir("/"); err != nil {
			return errors.Wrapf(err, "chdir after chroot(%s)", chroot)
		}
	}
	if setuid >= 0 {
		fmt.Fprintf(log, "Setting user id from %d/%d to %d\n", syscall.Getuid(), syscall.Geteuid(), setuid)
		if err := syscall.Setuid(setuid); err != nil {
			return errors.Wrapf(err, "setuid(%d)", setuid)
		}
	}
	return nil
}
