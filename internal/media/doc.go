// Package media provides byte readers for unstructured sample members
// (images, videos, point clouds, segmentation maps) on top of go-billy
// filesystems.
package media
