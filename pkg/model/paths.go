package model

import (
	"fmt"
	"path"
	"strings"
)

const (
	// MetaDir is the hidden directory holding a repository's private metadata
	MetaDir = ".vcs"

	configFile     = "config.json"
	stagingDir     = "staging"
	commitsDir     = "commits"
	lockFile       = "lock"
	remoteCommits  = "commits"
	keySeparator   = "/"
	commitDescFile = "commit.json"
)

// CommitDescriptorFile is the name of the descriptor written in every commit directory.
// It is reserved: no working file with this base name may be staged.
const CommitDescriptorFile = commitDescFile

// GetPathToConfig yields the path to the repo config, relative to the working tree root
func GetPathToConfig() string {
	return path.Join(MetaDir, configFile)
}

// GetPathToStaging yields the path to the staging directory, relative to the working tree root
func GetPathToStaging() string {
	return path.Join(MetaDir, stagingDir)
}

// GetPathToCommits yields the path to the local commit store, relative to the working tree root
func GetPathToCommits() string {
	return path.Join(MetaDir, commitsDir)
}

// GetPathToLock yields the path to the repository lock file, relative to the working tree root
func GetPathToLock() string {
	return path.Join(MetaDir, lockFile)
}

// GetCommitKey is the key of a committed file, relative to the local commit store
func GetCommitKey(commitID, fileName string) string {
	return fmt.Sprint(commitID, keySeparator, fileName)
}

// GetCommitPrefix is the key prefix of all files in a commit, relative to the local commit store
func GetCommitPrefix(commitID string) string {
	return commitID + keySeparator
}

// GetRemotePrefix is the key prefix of all remote objects for a repo
//
// As in: {repoId}/commits/
func GetRemotePrefix(repoID string) string {
	return fmt.Sprint(repoID, keySeparator, remoteCommits, keySeparator)
}

// GetRemoteObjectKey yields the remote object key of a committed file
//
// As in: {repoId}/commits/{commitId}/{fileName}
func GetRemoteObjectKey(repoID, commitID, fileName string) string {
	return GetRemotePrefix(repoID) + GetCommitKey(commitID, fileName)
}

// GetRemoteObjectKeyFromCommitKey maps a key in the local commit store to its remote object key
func GetRemoteObjectKeyFromCommitKey(repoID, commitKey string) string {
	return GetRemotePrefix(repoID) + commitKey
}

// RemoteKeyComponents defines the unique parts of a remote object key
type RemoteKeyComponents struct {
	RepoID   string
	CommitID string
	FileName string
}

// CommitKey is the key of the object in the local commit store
func (c RemoteKeyComponents) CommitKey() string {
	return GetCommitKey(c.CommitID, c.FileName)
}

// GetRemoteKeyComponents parses a remote object key.
//
// Keys which do not follow the {repoId}/commits/{commitId}/{fileName} scheme are rejected,
// and so are directory markers.
func GetRemoteKeyComponents(key string) (RemoteKeyComponents, error) {
	const parts = 4
	cs := strings.SplitN(key, keySeparator, parts)
	if len(cs) < parts {
		return RemoteKeyComponents{}, fmt.Errorf("key is invalid: expect key to have %d parts: %s", parts, key)
	}
	if cs[1] != remoteCommits {
		return RemoteKeyComponents{}, fmt.Errorf("key is invalid: second element should be %q: %s", remoteCommits, key)
	}
	for _, c := range cs {
		if c == "" {
			return RemoteKeyComponents{}, fmt.Errorf("key is invalid: empty element: %s", key)
		}
	}
	return RemoteKeyComponents{
		RepoID:   cs[0],
		CommitID: cs[2],
		FileName: cs[3],
	}, nil
}

// IsDirectoryMarker tells if an object key is a pure prefix, with no content of its own
func IsDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, keySeparator)
}

// IsCommitDescriptor tells if a file in a commit directory is the commit descriptor
func IsCommitDescriptor(fileName string) bool {
	return path.Base(fileName) == commitDescFile
}

// IsCommitControlFile tells if a file in a commit directory is kept with the commit but never restored
// in the working tree: the commit descriptor, other json metadata and markdown documentation.
func IsCommitControlFile(fileName string) bool {
	switch path.Ext(fileName) {
	case ".json", ".md":
		return true
	default:
		return false
	}
}

// IsMetaDir tells if a working tree entry is the hidden metadata directory
func IsMetaDir(name string) bool {
	return strings.Trim(path.Clean(name), "/") == MetaDir
}
