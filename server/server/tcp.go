package server

import (
	"fmt"

	"sfmp/network"
	"sfmp/server/global"
)

func StartTCPServer(host string, port int, handle func(*network.Conn)) error {
	srv, err := network.ListenTCP(host, port)
	if err != nil {
		return fmt.Errorf("listen tcp failed: %w", err)
	}
	go func() {
		for {
			conn, err := srv.Accept()
			if err != nil {
				continue
			}
			go handle(conn)
		}
	}()
	global.Logger.Info().Msgf("Transfer server is listening on %s:%d...", host, port)
	return nil
}
