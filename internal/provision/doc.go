// Package provision bootstraps a paired Perforce client and git p4 clone.
//
// A run is an ordered list of steps (see steps.go):
//
//	preflight -> git_workspace -> git_marker -> git_p4_clone ->
//	render_client_spec -> p4_workspace -> p4_marker -> p4_client
//
// The first failing step aborts the run. Nothing is rolled back; re-running
// with Update set reuses the directories created so far.
package provision
