// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package arch

import "golang.org/x/sys/unix"

// efiBooted checks for the efivars filesystem the kernel exposes on UEFI
// systems.
func efiBooted() bool {
	return unix.Access("/sys/firmware/efi/efivars", unix.R_OK) == nil
}
