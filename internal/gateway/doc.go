// Package gateway serves the interactions endpoint the chat platform calls.
//
// Every request is authenticated before its body is interpreted. The
// platform signs each callback with Ed25519 over the timestamp header
// followed by the raw body; requests that fail verification get a bare 401
// and never reach command handling.
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path
//  2. Body size checked (413 if larger than max_body_size)
//  3. Signature verified against the configured public key (401 on failure)
//  4. Body decoded as an interaction (400 if not JSON)
//  5. Ping interactions answered with a pong
//  6. Application commands classified and run; the result is returned as a
//     channel message, private to the invoker when it reports an error
//  7. Anything else answered with 404 {"error":"Not implemented."}
//
// GET /healthz is unauthenticated and reports process uptime.
//
// # Example Usage
//
//	verifier, err := auth.NewVerifier(os.Getenv("DISCORD_PUBLIC_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	server := gateway.New(gateway.Config{Listen: ":8080"}, verifier, router, logger)
//	if err := server.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
package gateway
