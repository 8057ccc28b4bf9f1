package cli

import (
	"github.com/spf13/cobra"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
)

var dsRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "control the repair copy machine",
	Long:  "control the repair copy machine",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	dsRepairBind string
	dsRepairPort string
)

var dsRepairTriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "start or resume repair",
	Long:  "start or resume repair",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRepairBind, dsRepairPort, cm.Repair, cm.Trigger)
	},
}

var dsRepairQuiesceCmd = &cobra.Command{
	Use:   "quiesce",
	Short: "pause repair at a safe checkpoint",
	Long:  "pause repair at a safe checkpoint",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRepairBind, dsRepairPort, cm.Repair, cm.Quiesce)
	},
}

var dsRepairStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "query repair state and progress",
	Long:  "query repair state and progress",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRepairBind, dsRepairPort, cm.Repair, cm.Status)
	},
}

var dsRepairAbortCmd = &cobra.Command{
	Use:   "abort",
	Short: "hard-stop repair",
	Long:  "hard-stop repair",
	Run: func(cmd *cobra.Command, args []string) {
		sendControl(dsRepairBind, dsRepairPort, cm.Repair, cm.Abort)
	},
}

func init() {
	dsRepairCmd.AddCommand(dsRepairTriggerCmd)
	dsRepairCmd.AddCommand(dsRepairQuiesceCmd)
	dsRepairCmd.AddCommand(dsRepairStatusCmd)
	dsRepairCmd.AddCommand(dsRepairAbortCmd)

	dsRepairCmd.PersistentFlags().StringVarP(&dsRepairBind, "bind", "b", config.Get("ds.addr"), "will ask the ds of this address")
	dsRepairCmd.PersistentFlags().StringVarP(&dsRepairPort, "port", "p", config.Get("ds.port"), "will ask the ds of this port")
}
