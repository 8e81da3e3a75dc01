package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer serves the pprof endpoints on their own port, meant to be
// reached internally or over an SSH tunnel, never exposed publicly.
func StartPprofServer(addr string, logger *zap.Logger) {
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)

	go func() {
		logger.Info("Starting pprof server", zap.String("addr", addr))
		if err := pprofRouter.Run(addr); err != nil {
			logger.Error("Pprof server stopped", zap.Error(err))
		}
	}()
}
