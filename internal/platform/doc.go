// Package platform provides cross-platform filesystem operations used when
// laying out a project: directory symlinks and permission bits. On Unix it
// uses native symlinks and chmod directly. On Windows, where symlinks need
// developer mode, it records the link target in a .target sidecar instead.
package platform
