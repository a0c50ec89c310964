// Package chain talks to a subtensor HTTP API and turns its metagraph
// responses into subnet ownership tables.
//
// Every response uses the same envelope:
//
//	{"statusCode": 200, "success": true, "data": ..., "error": null}
//
// Client applies a per-request timeout, a client-side rate limit and
// exponential backoff retries on transport errors, 429 and 5xx responses.
package chain
