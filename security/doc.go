// Package security provides shared TLS configuration for transport
// adapters. The Kafka endpoints embed TLSConfig in their own config;
// other adapters that dial external services can do the same.
//
// # Building a tls.Config
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/flume/tls/ca.pem",
//	    CertFile: "/etc/flume/tls/client.pem",
//	    KeyFile:  "/etc/flume/tls/client-key.pem",
//	}
//
//	tlsConf, err := cfg.Build()
package security
