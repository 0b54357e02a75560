// Package commands defines the policyfinder terminal client and wires its
// dependencies before any subcommand runs.
//
// Commands
//
//   - list       List policies, optionally filtered
//   - show       Print one policy
//   - fav        Toggle a favorite
//   - favs       List favorites
//   - feedback   Send feedback
//   - share      Print a share link or copy the policy link
//   - shell      Start an interactive session
//
// # Implementation
//
// The root command loads the configuration, builds the policy store backend
// and opens the favorites file under the home directory (default
// ~/.policyfinder). Favorites never leave the device.
package commands
