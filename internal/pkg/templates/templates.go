// Package templates generates the starter files for a new ccgo project:
// the descriptor, a CMake build, and a minimal library with a test.
package templates

import (
	"fmt"
	"strings"
)

// GenerateDescriptor generates the ccgo.yaml project descriptor.
func GenerateDescriptor(name, version string) string {
	if version == "" {
		version = "0.1.0"
	}
	return fmt.Sprintf(`name: %s
version: %s
language: c++
hidden_symbols: true

# Submodules and their dependencies, e.g.
# modules:
#   base: []
#   codec: [base]

android:
  project_dir: android
  module: library
  min_api: 21

harmony:
  project_dir: ohos
  module: library
  min_api: 10

apple:
  deployment_target: "12.0"
`, name, version)
}

// GenerateCMakeLists generates the root CMakeLists.txt. The CCGO_*
// cache variables are injected by the build orchestrator; the defaults
// here keep a plain `cmake .` working.
func GenerateCMakeLists(name string) string {
	return fmt.Sprintf(`cmake_minimum_required(VERSION 3.20)
project(%[1]s CXX)

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

if(NOT DEFINED CCGO_LIB_NAME)
    set(CCGO_LIB_NAME %[1]s)
endif()

add_library(${CCGO_LIB_NAME} src/%[1]s.cc)
target_include_directories(${CCGO_LIB_NAME} PUBLIC include)

install(TARGETS ${CCGO_LIB_NAME}
    ARCHIVE DESTINATION lib
    LIBRARY DESTINATION lib)
install(DIRECTORY include/ DESTINATION include)

if(BUILD_TESTING)
    enable_testing()
    add_executable(%[1]s_test test/%[1]s_test.cc)
    target_link_libraries(%[1]s_test PRIVATE ${CCGO_LIB_NAME})
    add_test(NAME %[1]s_test COMMAND %[1]s_test)
endif()
`, name)
}

// GenerateVersionHeader generates include/<name>/version.h with the
// usual numeric macros split out of the version string.
func GenerateVersionHeader(name, version string) string {
	if version == "" {
		version = "0.1.0"
	}
	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	upper := SafeIdent(strings.ToUpper(name))
	guard := upper + "_VERSION_H_"
	return fmt.Sprintf(`#ifndef %s
#define %s

#define %s_VERSION "%s"
#define %s_VERSION_MAJOR %s
#define %s_VERSION_MINOR %s
#define %s_VERSION_PATCH %s

#endif  // %s
`, guard, guard, upper, version, upper, parts[0], upper, parts[1], upper, parts[2], guard)
}

// GenerateHeader generates the public library header.
func GenerateHeader(name string) string {
	upper := SafeIdent(strings.ToUpper(name))
	guard := upper + "_H_"
	ident := SafeIdent(name)
	return fmt.Sprintf(`#ifndef %s
#define %s

namespace %s {

// Returns the library version string.
const char* Version();

}  // namespace %s

#endif  // %s
`, guard, guard, ident, ident, guard)
}

// GenerateSource generates the library source file.
func GenerateSource(name string) string {
	ident := SafeIdent(name)
	return fmt.Sprintf(`#include "%s/%s.h"

#include "%s/version.h"

namespace %s {

const char* Version() { return %s_VERSION; }

}  // namespace %s
`, name, name, name, ident, SafeIdent(strings.ToUpper(name)), ident)
}

// GenerateTest generates a minimal test that exercises the library.
func GenerateTest(name string) string {
	ident := SafeIdent(name)
	return fmt.Sprintf(`#include "%s/%s.h"

#include <cstring>
#include <cstdio>

int main() {
  if (std::strlen(%s::Version()) == 0) {
    std::fprintf(stderr, "empty version\n");
    return 1;
  }
  return 0;
}
`, name, name, ident)
}

// SafeIdent converts a project name into a valid C++ identifier.
func SafeIdent(name string) string {
	if name == "" {
		return "project"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
