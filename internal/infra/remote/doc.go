// Package remote reaches the helmet boards through external tools: ping for
// liveness, ssh for listing and deletion, scp and rsync for pulling photos.
package remote
