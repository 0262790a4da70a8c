package messaging

import "time"

type NatsServerOpt func(*NatsServer)

func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		if d > 0 {
			n.startupTimeout = d
		}
	}
}

// WithListen opens a TCP port on host:port for outside clients. A port of
// -1 lets the operating system choose.
func WithListen(host string, port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.listen = true
		if host != "" {
			n.host = host
		}
		if port != 0 {
			n.port = port
		}
	}
}
