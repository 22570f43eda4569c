// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package discovery

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

var elfMachines = map[string]elf.Machine{
	"386":     elf.EM_386,
	"amd64":   elf.EM_X86_64,
	"arm":     elf.EM_ARM,
	"arm64":   elf.EM_AARCH64,
	"ppc64":   elf.EM_PPC64,
	"ppc64le": elf.EM_PPC64,
	"s390x":   elf.EM_S390,
	"riscv64": elf.EM_RISCV,
	"loong64": elf.EM_LOONGARCH,
}

var machoCPUs = map[string]macho.Cpu{
	"amd64": macho.CpuAmd64,
	"arm64": macho.CpuArm64,
}

var peMachines = map[string]uint16{
	"386":   pe.IMAGE_FILE_MACHINE_I386,
	"amd64": pe.IMAGE_FILE_MACHINE_AMD64,
	"arm64": pe.IMAGE_FILE_MACHINE_ARM64,
}

// checkImage reads the object file header at path and reports whether it
// was built for this process's operating system format and architecture.
// Architectures without a known mapping are not rejected.
func checkImage(path string) error {
	switch runtime.GOOS {
	case "darwin", "ios":
		return checkMachO(path)
	case "windows":
		return checkPE(path)
	default:
		return checkELF(path)
	}
}

func checkELF(path string) error {
	f, err := elf.Open(path)
	if err != nil {
		var fe *elf.FormatError
		if errors.As(err, &fe) {
			return fmt.Errorf("%s: %w: %v", path, ErrNotLibrary, err)
		}
		return err
	}
	defer f.Close()

	wantClass := elf.ELFCLASS32
	if strconv.IntSize == 64 {
		wantClass = elf.ELFCLASS64
	}
	if f.Class != wantClass {
		return fmt.Errorf("%s is %s, process is %s: %w", path, f.Class, bitness(), ErrArchMismatch)
	}
	if want, ok := elfMachines[runtime.GOARCH]; ok && f.Machine != want {
		return fmt.Errorf("%s is built for %s, process is %s: %w", path, f.Machine, runtime.GOARCH, ErrArchMismatch)
	}
	return nil
}

func checkMachO(path string) error {
	want, known := machoCPUs[runtime.GOARCH]

	if fat, err := macho.OpenFat(path); err == nil {
		defer fat.Close()
		if !known {
			return nil
		}
		for _, arch := range fat.Arches {
			if arch.Cpu == want {
				return nil
			}
		}
		return fmt.Errorf("%s has no %s slice: %w", path, runtime.GOARCH, ErrArchMismatch)
	}

	f, err := macho.Open(path)
	if err != nil {
		var fe *macho.FormatError
		if errors.As(err, &fe) {
			return fmt.Errorf("%s: %w: %v", path, ErrNotLibrary, err)
		}
		return err
	}
	defer f.Close()
	if known && f.Cpu != want {
		return fmt.Errorf("%s is built for %s, process is %s: %w", path, f.Cpu, runtime.GOARCH, ErrArchMismatch)
	}
	return nil
}

func checkPE(path string) error {
	f, err := pe.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if want, ok := peMachines[runtime.GOARCH]; ok && f.Machine != want {
		return fmt.Errorf("%s has machine type %#x, process is %s: %w", path, f.Machine, runtime.GOARCH, ErrArchMismatch)
	}
	return nil
}
