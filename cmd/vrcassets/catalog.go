package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect reference catalogs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a reference catalog YAML file (built-in catalog when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ref, err := catalog.Load(path)
			if err != nil {
				return err
			}
			name := path
			if name == "" {
				name = "built-in catalog"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %s, %d avatar bases, %d entries)\n",
				name, ref.Version, len(ref.AvatarBases), len(ref.Compatibility))
			return nil
		},
	})
	return cmd
}
