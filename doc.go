// Package authclient manages a client side authenticated session against a
// remote identity service: sign in, sign up, OAuth exchange, and profile
// reads and writes, exposed through a single facade.
//
// Session lifecycle:
//   - The session is a small state machine (idle, pending, authenticated,
//     unauthenticated, failed). A freshly built SessionManager starts in
//     pending; Bootstrap settles it from the stored credential without ever
//     rendering protected content before the first settled state is known.
//   - Every remote operation captures a generation counter when it begins.
//     Logout bumps the counter, so resolutions arriving after a sign out are
//     discarded instead of resurrecting the session. Concurrent operations do
//     not merge; the last valid resolution wins wholesale.
//
// Credential handling:
//   - The bearer token lives in a TokenStore (in memory, file backed, or the
//     bun/sqlite store under store/bunstore). The manager is its only writer
//     and always persists the credential before the session flips to
//     authenticated.
//   - Tokens are opaque to this package. PeekToken reads claims without
//     verifying the signature; verification stays the remote's job.
//
// Rendering policy:
//   - AccessGuard maps session state to a wait, redirect, or allow decision.
//     It is pure: it never mutates the session and never triggers transitions.
package authclient
