// Package version holds the build information of the glot binary.
package version

// These are set at link time, e.g.
//
//	go build -ldflags "-X github.com/Azure/glot/pkg/version.SemVer=v0.2.0"
var (
	// SemVer is the semantic version of the build.
	SemVer = "v0.1.0"
	// GitCommit is the commit the build was made from.
	GitCommit = "unknown"
	// GitTreeState is "clean" or "dirty".
	GitTreeState = ""
)

// Version is the build information.
type Version struct {
	SemVer       string `json:"semver"`
	GitCommit    string `json:"git-commit"`
	GitTreeState string `json:"git-tree-state"`
}

// New returns the information of the running build.
func New() *Version {
	return &Version{
		SemVer:       SemVer,
		GitCommit:    GitCommit,
		GitTreeState: GitTreeState,
	}
}
