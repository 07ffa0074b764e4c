package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zjrosen/nestmode/internal/config"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available language profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	names := make(map[string]string) // name -> source

	for name := range config.DefaultProfiles() {
		names[name] = "built-in"
	}

	dir := profileDir
	if dir == "" {
		if d, err := config.DefaultProfileDir(); err == nil {
			dir = d
		}
	}
	if dir != "" {
		if profiles, err := config.LoadProfileDir(dir); err == nil {
			for name := range profiles {
				names[name] = dir
			}
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	out := cmd.OutOrStdout()
	for _, name := range sorted {
		fmt.Fprintf(out, "%s\t(%s)\n", name, names[name])
	}
	return nil
}
