package config

import (
	"sort"
	"strings"
)

// aptMirrors maps the known mirror keys to their sources host. The key "cn"
// is an alias for the general China mirror.
var aptMirrors = map[string]string{
	"tuna":   "mirrors.tuna.tsinghua.edu.cn",
	"aliyun": "mirrors.aliyun.com",
	"163":    "mirrors.163.com",
	"ustc":   "mirrors.ustc.edu.cn",
	"cn":     "mirrors.cn99.com",
}

// Apt configures the APT package sources used while building a stage.
type Apt struct {
	// RepoSource is either a known mirror key (see MirrorKeys) or a path to
	// a sources file to copy into the image. Empty keeps the image default.
	RepoSource string
	// KeepRepoAfterBuild leaves the substituted sources in the final image.
	KeepRepoAfterBuild bool
	// UseProxy routes APT traffic through the stage proxy during the build.
	UseProxy bool
	// KeepProxyAfterBuild leaves the APT proxy configuration in the image.
	KeepProxyAfterBuild bool
}

// NewApt validates and returns an Apt. repoSource must be empty, a known
// mirror key, or a path (anything containing a path separator).
func NewApt(repoSource string, keepRepo, useProxy, keepProxy bool) (Apt, error) {
	if repoSource != "" {
		if _, known := aptMirrors[repoSource]; !known && !strings.Contains(repoSource, "/") {
			return Apt{}, errf("apt.repo_source", repoSource,
				"must be a known mirror key (%s) or a path to a sources file", strings.Join(MirrorKeys(), ", "))
		}
	}
	return Apt{
		RepoSource:          repoSource,
		KeepRepoAfterBuild:  keepRepo,
		UseProxy:            useProxy,
		KeepProxyAfterBuild: keepProxy,
	}, nil
}

// MirrorKeys returns the known mirror keys in lexical order.
func MirrorKeys() []string {
	keys := make([]string, 0, len(aptMirrors))
	for k := range aptMirrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MirrorHost resolves a known mirror key to its host. The second return is
// false for unknown keys (including paths).
func MirrorHost(key string) (string, bool) {
	host, ok := aptMirrors[key]
	return host, ok
}
