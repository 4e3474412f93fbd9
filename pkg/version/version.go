package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/NeuralTrust/SportLens/pkg/version.Version=1.0.0 -X ...GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.4.2"
	AppName   = "SportLens"
	GitCommit = "none"
	BuildDate = "unknown"
)

type Info struct {
	AppName   string `json:"app_name"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form printed by `sportlens version`.
func (i Info) String() string {
	return fmt.Sprintf("%s version %s", i.AppName, i.Version)
}
