// Package tlsroots builds the trust store used to reach a chain API served
// over HTTPS with a private certificate authority.
//
// The pool starts from the system roots; chain.ca_file adds a PEM bundle or
// a directory of .pem, .crt and .cer files on top:
//
//	tc, err := tlsroots.ClientConfig(cfg.Chain.CAFile)
package tlsroots
