// Package storage provides the persistent key-value stores used by the vault.
//
// The vault only needs string keys and string values:
//   - Get/Set/Remove by key
//   - ClearAll to wipe everything the store holds
//
// Two implementations live here:
//   - Memory: in-process map, used by tests and the "memory" backend
//   - Bolt: a single bbolt file with a kv bucket for vault entries and a
//     meta bucket for the store's own instance ID
//
// BBolt provides ACID transactions, file locking, and corruption detection,
// so Remove with several keys is all-or-nothing on the Bolt store.
package storage
