// Package shell renders the snippet that puts the gotool bin directory on
// PATH for the user's shell.
//
// The snippet is printed, never written to rc files:
//
//	eval "$(gotool env)"        # bash, zsh
//	gotool env fish | source    # fish
package shell
