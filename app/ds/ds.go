package ds

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/venkuppu-chn/cortx/app/ds/delivery"
	"github.com/venkuppu-chn/cortx/app/ds/infrastructure/repository/inmem"
	"github.com/venkuppu-chn/cortx/app/ds/usecase/copymachine"
	"github.com/venkuppu-chn/cortx/pkg/cortxrpc"
	"github.com/venkuppu-chn/cortx/pkg/topology"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
	"github.com/venkuppu-chn/cortx/pkg/util/mlog"
	"github.com/venkuppu-chn/cortx/pkg/util/uuid"
)

var logger *logrus.Entry

// Bootstrap builds up the storage node service.
func Bootstrap(cfg config.Ds) error {
	// Setup logger.
	if err := mlog.Init(cfg.LogLocation); err != nil {
		return errors.Wrap(err, "init log failed")
	}
	logger = mlog.GetPackageLogger("app/ds")

	ctxLogger := mlog.GetFunctionLogger(logger, "Bootstrap")
	ctxLogger.Info("start bootstrap ds ...")

	// Generates storage node ID.
	cfg.ID = uuid.Gen()

	// Setup repository.
	cmStore := inmem.NewCopyMachineRepository()

	// Snapshot the processor topology. Worker pools are sized from
	// this once; it is not re-consulted until the process restarts.
	topo := topology.New()
	ctxLogger.Infof("topology: %d processors", topo.MaxProcessorCount())

	// Build the control message catalog. It is owned here and passed
	// by reference to the handlers and the delivery service.
	catalog := cortxrpc.NewCatalog()

	// Setup usecase handlers.
	cmHandlers, err := copymachine.NewHandlers(&cfg, catalog, topo, cmStore)
	if err != nil {
		return errors.Wrap(err, "failed to setup copy-machine handlers")
	}

	// Setup delivery service.
	d, err := delivery.SetupDeliveryService(&cfg, catalog, cmHandlers)
	if err != nil {
		return errors.Wrap(err, "failed to setup delivery")
	}

	ctxLogger.Info("bootstrap ds succeeded")

	// Make channel for Ctrl-C or other terminate signal is received.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)

	<-sigc
	ctxLogger.Info("received stop signal from OS")
	return d.Stop()
}
