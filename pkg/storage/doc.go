// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS, or any S3-compatible store such as minio)
//   - local file system
//
// The local file system backend also holds the staging area and the commit store of a working tree.
package storage
