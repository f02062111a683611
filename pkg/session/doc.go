/*
Package session serializes session steps for adapters that serve several clients.

The CLI drives one session at a time and needs none of this. The HTTP and MCP servers
may receive concurrent "next" and "complete" requests for the same learner; the Manager
runs them one at a time, optionally across processes through a DistributedLocker when
the ledger lives in Redis.
*/
package session
