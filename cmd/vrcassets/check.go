package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/catalog"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/config"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/seed"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

func newCheckCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a compatibility check against the seeded data",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "asset <avatar-id> <asset-id>",
		Short: "Check an asset against an avatar base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[1])
			}
			return runCheck(cmd, compat.Query{Mode: compat.ModeAsset, AvatarID: args[0], AssetID: assetID}, asJSON)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "avatars <source-id> <target-id>",
		Short: "Check porting content from one avatar base to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, compat.Query{Mode: compat.ModeAvatars, SourceID: args[0], TargetID: args[1]}, asJSON)
		},
	})
	return cmd
}

// runCheck 以配置中的种子生成数据后执行一次查询；资源 id 与 serve 启动时一致
func runCheck(cmd *cobra.Command, q compat.Query, asJSON bool) error {
	cfg, _, err := config.LoadConfigWithInfo(configPath(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	resolver, cleanup, err := seededResolver(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := resolver.Check(cmd.Context(), q, 0)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res, asJSON)
}

func seededResolver(cfg *config.AppConfig) (*compat.Resolver, func(), error) {
	ref, err := catalog.Load(cfg.Data.ReferenceFile)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.NewMemory()
	if err != nil {
		return nil, nil, err
	}
	opts := seed.Options{Seed: cfg.Data.Seed, AssetsPerType: cfg.Data.AssetsPerType}
	if _, err := seed.Run(st, ref, opts, zap.NewNop()); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return compat.NewResolver(st), func() { _ = st.Close() }, nil
}

func printResult(w io.Writer, res compat.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Overall\t%s\t\n", res.Overall)
	for _, d := range res.Details {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Aspect, d.Status, d.Message)
	}
	return tw.Flush()
}
