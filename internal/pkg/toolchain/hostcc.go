package toolchain

import (
	"fmt"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// HostCC is the host compiler toolchain used for Linux (and host-only
// test/bench) builds. Clang is preferred over GCC when both exist.
type HostCC struct {
	cc  string
	cxx string
}

// DetectHostCC locates a host C/C++ compiler pair on PATH.
func DetectHostCC() (*HostCC, error) {
	pairs := [][2]string{
		{"clang", "clang++"},
		{"gcc", "g++"},
		{"cc", "c++"},
	}
	for _, pair := range pairs {
		ccPath, err := execLookPath(pair[0])
		if err != nil {
			continue
		}
		cxxPath, err := execLookPath(pair[1])
		if err != nil {
			continue
		}
		return &HostCC{cc: ccPath, cxx: cxxPath}, nil
	}
	return nil, errors.NewToolError("host compiler",
		"no C/C++ compiler pair found on PATH (tried clang, gcc, cc)",
		"install clang or gcc")
}

func (h *HostCC) Name() string { return "host compiler" }

func (h *HostCC) Path() string { return h.cc }

// Validate re-checks that both compilers are still present.
func (h *HostCC) Validate() error {
	for _, tool := range []string{h.cc, h.cxx} {
		if !fileExists(tool) {
			return errors.NewToolError("host compiler",
				fmt.Sprintf("%s no longer exists", tool), "reinstall the compiler")
		}
	}
	return nil
}

// Bindings returns the host compiler bindings. The architecture is the
// host's; cross architectures are not supported by this toolchain.
func (h *HostCC) Bindings(arch string) (map[string]string, error) {
	return map[string]string{
		"CMAKE_C_COMPILER":   h.cc,
		"CMAKE_CXX_COMPILER": h.cxx,
	}, nil
}
