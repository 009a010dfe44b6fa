// Package workspace derives and materializes the paired Perforce/Git workspace
// layout for a single provisioning run.
//
// A Context is computed once from the client name, the depot path and the
// ambient environment (working directory, user, host, clock). Two sibling
// roots are derived from it:
//
//	<cwd>/perforce/<client>-git   Perforce client root
//	<cwd>/git/<client>            git p4 clone target
//
// Each root receives a marker file (.p4config) binding the directory to the
// derived Perforce client name. Directory and file operations go through the
// FS interface so the provisioner can be exercised without touching disk.
package workspace
