package delivery

import (
	"log"
	"net"
	"net/http"
	"net/rpc"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/venkuppu-chn/cortx/app/ds/usecase/copymachine"
	"github.com/venkuppu-chn/cortx/pkg/cortxmux"
	"github.com/venkuppu-chn/cortx/pkg/cortxrpc"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
	"github.com/venkuppu-chn/cortx/pkg/util/mlog"
)

var logger *logrus.Entry

// Service binds the copy-machine control catalog to the transport:
// a control rpc layer and a read-only http status layer behind one
// multiplexed listener.
type Service struct {
	cfg     *config.Ds
	catalog *cortxrpc.Catalog

	mux      *cortxmux.CortxMux
	controlL *cortxmux.Layer
	statusL  *cortxmux.Layer

	httpHandler http.Handler
	httpSrv     *http.Server

	controlSrv *rpc.Server
	cmHandlers copymachine.Handlers
}

// SetupDeliveryService creates a delivery service with necessary dependencies.
// Every message pair of the catalog is registered with the transport
// before the listener starts accepting requests.
func SetupDeliveryService(cfg *config.Ds, catalog *cortxrpc.Catalog, ch copymachine.Handlers) (*Service, error) {
	if cfg == nil || catalog == nil || ch == nil {
		return nil, errors.New("invalid nil arguments")
	}
	logger = mlog.GetPackageLogger("app/ds/delivery")

	s := &Service{
		cfg:        cfg,
		catalog:    catalog,
		cmHandlers: ch,
	}

	// Resolve node address.
	addr := cfg.ServerAddr + ":" + cfg.ServerPort
	rAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "resolve node address failed")
	}

	// Create transport layers.
	s.controlL = cortxmux.NewLayer(controlTypeBytes(), rAddr, false)
	s.statusL = cortxmux.NewLayer(httpTypeBytes(), rAddr, true)

	// Create a mux and register layers.
	s.mux = cortxmux.NewCortxMux(addr, &cfg.Security)
	s.mux.RegisterLayer(s.controlL)
	s.mux.RegisterLayer(s.statusL)

	// Create a http handler for the status routes.
	s.httpHandler = makeHandler(ch)

	// Create http server.
	s.httpSrv = &http.Server{
		Handler:        s.httpHandler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
		ErrorLog:       log.New(logger.Writer(), "http server", log.Lshortfile),
	}

	// Create control server and register the catalog methods.
	s.controlSrv = rpc.NewServer()
	if err := s.controlSrv.RegisterName(cortxrpc.DSRPCPrefix, s.cmHandlers); err != nil {
		return nil, err
	}
	for _, e := range catalog.Entries() {
		logger.Infof("registered control message pair %s (%s %s)", e.Method, e.Kind, e.Verb)
	}

	// Run the delivery server.
	s.run()

	return s, nil
}

// run starts the ds delivery service.
func (s *Service) run() {
	ctxLogger := mlog.GetMethodLogger(logger, "Service.run")
	ctxLogger.Info("start ds delivery service ...")

	go s.mux.ListenAndServeTLS()
	go s.serveControl()
	go s.httpSrv.Serve(s.statusL)
}

// Stop cleans up the services and shuts down the server.
// The listener closes before the layers, so the catalog is released
// only when no request is in flight.
func (s *Service) Stop() error {
	ctxLogger := mlog.GetMethodLogger(logger, "Service.Stop")
	ctxLogger.Info("stop ds delivery service ...")

	// mux closes the listener and all the registered layers.
	if err := s.mux.Close(); err != nil {
		return errors.Wrap(err, "close mux failed")
	}

	// Close the http server.
	return s.httpSrv.Close()
}

func (s *Service) serveControl() {
	ctxLogger := mlog.GetMethodLogger(logger, "Service.serveControl")

	for {
		conn, err := s.controlL.Accept()
		if err != nil {
			ctxLogger.Error(errors.Wrap(err, "accept connection from control layer failed"))
			return
		}
		go s.controlSrv.ServeConn(conn)
	}
}
