package cli

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/venkuppu-chn/cortx/app/ds"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
)

var dsCfg config.Ds

var dsCmd = &cobra.Command{
	Use:   "ds",
	Short: "ds control commands",
	Long:  "ds control commands",
	Run:   dsRun,
}

func dsRun(cmd *cobra.Command, args []string) {
	if err := os.Chdir(dsCfg.WorkDir); err != nil {
		log.Fatal(err)
	}

	if err := ds.Bootstrap(dsCfg); err != nil {
		log.Fatal(err)
	}
}

func init() {
	dsCmd.AddCommand(dsRepairCmd)
	dsCmd.AddCommand(dsRebalanceCmd)

	dsCmd.Flags().StringVarP(&dsCfg.ServerAddr, "bind", "b", config.Get("ds.addr"), "address to which the ds will bind")
	dsCmd.Flags().StringVarP(&dsCfg.ServerPort, "port", "p", config.Get("ds.port"), "port on which the ds will listen")

	dsCmd.Flags().StringVarP(&dsCfg.WorkDir, "work-dir", "", config.Get("ds.work_dir"), "working directory")

	dsCmd.Flags().StringVarP(&dsCfg.CopyMachine.ExclusionWait, "cm-exclusion-wait", "", config.Get("cm.exclusion_wait"), "bounded wait for descriptor exclusion")
	dsCmd.Flags().StringVarP(&dsCfg.CopyMachine.WorkerTick, "cm-worker-tick", "", config.Get("cm.worker_tick"), "interval between data-movement batches")
	dsCmd.Flags().StringVarP(&dsCfg.CopyMachine.BatchSize, "cm-batch-size", "", config.Get("cm.batch_size"), "chunks relocated per tick")

	dsCmd.Flags().StringVarP(&dsCfg.Security.CertsDir, "secure-certs-dir", "", config.Get("security.certs_dir"), "directory path of secure configuration files")
	dsCmd.Flags().StringVarP(&dsCfg.Security.RootCAPem, "secure-rootca-pem", "", config.Get("security.rootca_pem"), "file name of rootCA.pem")
	dsCmd.Flags().StringVarP(&dsCfg.Security.ServerKey, "secure-server-key", "", config.Get("security.server_key"), "file name of server key")
	dsCmd.Flags().StringVarP(&dsCfg.Security.ServerCrt, "secure-server-crt", "", config.Get("security.server_crt"), "file name of server crt")

	dsCmd.Flags().StringVarP(&dsCfg.LogLocation, "log", "l", config.Get("ds.log_location"), "log location of the ds will print out")
}
