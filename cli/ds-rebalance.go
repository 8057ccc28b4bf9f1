package cli

import (
	"github.com/spf13/cobra"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
)

var dsRebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "control the rebalance copy machine",
	Long:  "control the rebalance copy machine",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	dsRebalanceBind string
	dsRebalancePort string
)

var dsRebalanceTriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "start or resume rebalance",
	Long:  "start or resume rebalance",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRebalanceBind, dsRebalancePort, cm.Rebalance, cm.Trigger)
	},
}

var dsRebalanceQuiesceCmd = &cobra.Command{
	Use:   "quiesce",
	Short: "pause rebalance at a safe checkpoint",
	Long:  "pause rebalance at a safe checkpoint",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRebalanceBind, dsRebalancePort, cm.Rebalance, cm.Quiesce)
	},
}

var dsRebalanceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "query rebalance state and progress",
	Long:  "query rebalance state and progress",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRebalanceBind, dsRebalancePort, cm.Rebalance, cm.Status)
	},
}

var dsRebalanceAbortCmd = &cobra.Command{
	Use:   "abort",
	Short: "hard-stop rebalance",
	Long:  "hard-stop rebalance",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRebalanceBind, dsRebalancePort, cm.Rebalance, cm.Abort)
	},
}

func init() {
	dsRebalanceCmd.AddCommand(dsRebalanceTriggerCmd)
	dsRebalanceCmd.AddCommand(dsRebalanceQuiesceCmd)
	dsRebalanceCmd.AddCommand(dsRebalanceStatusCmd)
	dsRebalanceCmd.AddCommand(dsRebalanceAbortCmd)

	dsRebalanceCmd.PersistentFlags().StringVarP(&dsRebalanceBind, "bind", "b", config.Get("ds.addr"), "will ask the ds of this address")
	dsRebalanceCmd.PersistentFlags().StringVarP(&dsRebalancePort, "port", "p", config.Get("ds.port"), "will ask the ds of this port")
}
