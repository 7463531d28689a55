// Package plex talks to the Plex media server whose libraries back the
// availability index.
//
// The Client lists library sections, pages through section contents, and
// resolves the server's machine identifier for deep links. Plex returns
// either a JSON or an XML MediaContainer for the same logical endpoints
// depending on server version and Accept handling, so every response is
// decoded through a dual-format path that yields the same record shapes.
//
// A nil *Client is a valid "unconfigured" client: NewFromConfig returns nil
// when the plex section of the configuration is blank, and callers treat that
// as an empty library rather than an error.
package plex
