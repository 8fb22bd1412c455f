package labserver

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"outlierlab/internal/config"
)

// Run opens the dataset store and serves the wire contract on the
// configured port, blocking until the listener fails.
func Run(cfg *config.Config) error {
	gin.SetMode(cfg.Server.GinMode)

	store, err := OpenStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	server := NewServer(store)
	server.log.Info("[labserver] listening on :%s", cfg.Server.Port)
	return server.Router().Run(":" + cfg.Server.Port)
}
