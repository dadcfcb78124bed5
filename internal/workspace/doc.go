// Package workspace locates the root of the Cargo workspace a build runs in and
// prepares the directories builds write into.
//
// The root is discovered by asking the compiler toolchain itself
// (cargo locate-project --workspace), so nested packages and virtual manifests
// resolve exactly as they do for a normal cargo build.
package workspace
