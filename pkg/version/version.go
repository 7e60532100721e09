package version

import "fmt"

// RouterVersion indicates what version of item-router the binary belongs to
var RouterVersion string

// GitCommit indicates which git commit the binary was built from
var GitCommit string

// String returns a pretty string concatenation of RouterVersion and GitCommit
func String() string {
	return fmt.Sprintf("item-router version: %s\n git commit: %s\n", RouterVersion, GitCommit)
}
