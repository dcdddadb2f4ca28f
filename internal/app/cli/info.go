package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils/colors"
)

// InfoCmd creates the info command
func InfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show project and version information",
		Long:  "Show the loaded project descriptor, the resolved build version and the module dependency graph.",
		RunE:  runInfo,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}

type projectInfo struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	FullVersion string              `json:"full_version"`
	Branch      string              `json:"branch,omitempty"`
	Commit      string              `json:"commit,omitempty"`
	Dirty       bool                `json:"dirty"`
	Language    string              `json:"language"`
	Modules     map[string][]string `json:"modules,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, err := loadContext(core.BuildOptions{Link: core.LinkBoth})
	if err != nil {
		return err
	}

	info := projectInfo{
		Name:        ctx.LibName(),
		Version:     ctx.Version.Base,
		FullVersion: ctx.FullVersion(),
		Branch:      ctx.Version.Branch,
		Commit:      ctx.Version.Commit,
		Dirty:       ctx.Version.Dirty,
		Language:    ctx.Config.Language,
		Modules:     ctx.Config.Modules,
	}

	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s%s%s %s\n", colors.Bold, info.Name, colors.Reset, info.FullVersion)
	fmt.Printf("  language: %s\n", info.Language)
	if info.Branch != "" {
		dirty := ""
		if info.Dirty {
			dirty = " (dirty)"
		}
		fmt.Printf("  git:      %s @ %s%s\n", info.Branch, info.Commit, dirty)
	}
	if len(info.Modules) > 0 {
		fmt.Println("  modules:")
		for name, deps := range info.Modules {
			if len(deps) == 0 {
				fmt.Printf("    %s\n", name)
				continue
			}
			fmt.Printf("    %s -> %s\n", name, strings.Join(deps, ", "))
		}
	}
	if _, err := os.Stat(core.BuildDirName); err == nil {
		fmt.Printf("  build tree: ./%s\n", core.BuildDirName)
	}
	return nil
}
