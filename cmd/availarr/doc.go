// Command availarr is the availability indexer CLI and daemon entry point.
package main
