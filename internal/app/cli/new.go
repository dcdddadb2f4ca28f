package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/templates"
	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

// NewCmd creates the new command
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new ccgo library project",
		Long:  "Create a new library project: descriptor, CMake build, a minimal source tree and a test.",
		Args:  cobra.ExactArgs(1),
		RunE:  runNew,
	}

	cmd.Flags().String("version", "0.1.0", "Initial project version")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	version, _ := cmd.Flags().GetString("version")

	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("directory %s already exists", name)
	}

	files := map[string]string{
		config.DescriptorName:                       templates.GenerateDescriptor(name, version),
		"CMakeLists.txt":                            templates.GenerateCMakeLists(name),
		filepath.Join("include", name, "version.h"): templates.GenerateVersionHeader(name, version),
		filepath.Join("include", name, name+".h"):   templates.GenerateHeader(name),
		filepath.Join("src", name+".cc"):            templates.GenerateSource(name),
		filepath.Join("test", name+"_test.cc"):      templates.GenerateTest(name),
	}
	for rel, content := range files {
		path := filepath.Join(name, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}

	PrintSuccess("created %s", name)
	fmt.Printf("  cd %s && ccgo build linux\n", name)
	return nil
}
