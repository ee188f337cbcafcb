package server

import (
	"net/http"

	"sfmp/server/global"
)

func StartHTTPServer(addr string, handler http.Handler) error {
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			global.Logger.Error().Err(err).Msg("admin http server stopped")
		}
	}()
	global.Logger.Info().Msgf("Admin server is listening on %s...", addr)
	return nil
}
