// Package orm provides prefixed buckets for storing models in a KVStore.
package orm
