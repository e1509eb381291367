package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Raw mirror of the YAML document. Booleans that default to true are
// pointers so that "absent" and "false" can be told apart before the
// constructors apply defaults.
type rawProject struct {
	ProjectName string   `yaml:"project_name"`
	Stage1      rawStage `yaml:"stage_1"`
	Stage2      rawStage `yaml:"stage_2"`
}

type rawStage struct {
	Image       *rawImage             `yaml:"image"`
	SSH         *rawSSH               `yaml:"ssh"`
	Proxy       *rawProxy             `yaml:"proxy"`
	Apt         *rawApt               `yaml:"apt"`
	Device      *rawDevice            `yaml:"device"`
	Ports       []string              `yaml:"ports"`
	Environment []string              `yaml:"environment"`
	Storage     map[string]rawStorage `yaml:"storage"`
	Custom      *rawScripts           `yaml:"custom"`
}

type rawImage struct {
	Base   string `yaml:"base"`
	Output string `yaml:"output"`
}

type rawSSH struct {
	Enable   *bool              `yaml:"enable"`
	Port     int                `yaml:"port"`
	HostPort int                `yaml:"host_port"`
	Users    map[string]rawUser `yaml:"users"`
}

type rawUser struct {
	Password    string `yaml:"password"`
	PubkeyFile  string `yaml:"pubkey_file"`
	PubkeyText  string `yaml:"pubkey_text"`
	PrivkeyFile string `yaml:"privkey_file"`
	PrivkeyText string `yaml:"privkey_text"`
	UID         int    `yaml:"uid"`
}

type rawProxy struct {
	Address          string `yaml:"address"`
	Port             int    `yaml:"port"`
	EnableGlobally   bool   `yaml:"enable_globally"`
	RemoveAfterBuild bool   `yaml:"remove_after_build"`
	UseHTTPS         bool   `yaml:"use_https"`
}

type rawApt struct {
	RepoSource          string `yaml:"repo_source"`
	KeepRepoAfterBuild  *bool  `yaml:"keep_repo_after_build"`
	UseProxy            bool   `yaml:"use_proxy"`
	KeepProxyAfterBuild bool   `yaml:"keep_proxy_after_build"`
}

type rawDevice struct {
	Type string `yaml:"type"`
}

type rawStorage struct {
	Type       string `yaml:"type"`
	HostPath   string `yaml:"host_path"`
	VolumeName string `yaml:"volume_name"`
	DstPath    string `yaml:"dst_path"`
}

type rawScripts struct {
	OnBuild     []string `yaml:"on_build"`
	OnFirstRun  []string `yaml:"on_first_run"`
	OnEveryRun  []string `yaml:"on_every_run"`
	OnUserLogin []string `yaml:"on_user_login"`
	OnEntry     []string `yaml:"on_entry"`
}

// Load reads, parses, and validates a project configuration file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses and validates a project configuration from raw YAML
// bytes. Unknown fields are rejected. The source parameter is used only for
// error messages.
func LoadBytes(data []byte, source string) (*Project, error) {
	var raw rawProject
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("config %q: YAML parse error: %w", source, err)
	}

	var errs []string

	stage1 := buildStage("stage_1", raw.Stage1, &errs)
	stage2 := buildStage("stage_2", raw.Stage2, &errs)

	var project *Project
	if len(errs) == 0 {
		var err error
		project, err = NewProject(raw.ProjectName, stage1, stage2)
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config %q is invalid:\n  - %s", source, strings.Join(errs, "\n  - "))
	}
	return project, nil
}

// buildStage funnels one raw stage through the facet constructors, appending
// every validation failure to errs so the caller can report them all at
// once.
func buildStage(name string, raw rawStage, errs *[]string) Stage {
	fail := func(err error) {
		*errs = append(*errs, fmt.Sprintf("%s: %v", name, err))
	}

	var stage Stage
	var err error

	if raw.Image != nil {
		if stage.Image, err = NewImage(raw.Image.Base, raw.Image.Output); err != nil {
			fail(err)
		}
	}

	if raw.SSH != nil {
		users := make(map[string]SSHUser, len(raw.SSH.Users))
		for userName, u := range raw.SSH.Users {
			user, err := NewSSHUser(userName, u.Password, u.PubkeyFile, u.PubkeyText, u.PrivkeyFile, u.PrivkeyText, u.UID)
			if err != nil {
				fail(err)
				continue
			}
			users[userName] = user
		}
		enable := true
		if raw.SSH.Enable != nil {
			enable = *raw.SSH.Enable
		}
		if stage.SSH, err = NewSSH(enable, raw.SSH.Port, raw.SSH.HostPort, users); err != nil {
			fail(err)
		}
	}

	if raw.Proxy != nil {
		if stage.Proxy, err = NewProxy(raw.Proxy.Address, raw.Proxy.Port,
			raw.Proxy.EnableGlobally, raw.Proxy.RemoveAfterBuild, raw.Proxy.UseHTTPS); err != nil {
			fail(err)
		}
	}

	if raw.Apt != nil {
		keepRepo := true
		if raw.Apt.KeepRepoAfterBuild != nil {
			keepRepo = *raw.Apt.KeepRepoAfterBuild
		}
		if stage.Apt, err = NewApt(raw.Apt.RepoSource, keepRepo, raw.Apt.UseProxy, raw.Apt.KeepProxyAfterBuild); err != nil {
			fail(err)
		}
	} else {
		stage.Apt.KeepRepoAfterBuild = true
	}

	typ := ""
	if raw.Device != nil {
		typ = raw.Device.Type
	}
	if stage.Device, err = NewDevice(typ); err != nil {
		fail(err)
	}

	if _, err := PortMappingsToRanges(raw.Ports); err != nil {
		fail(fmt.Errorf("ports: %w", err))
	}
	stage.Ports = raw.Ports
	stage.Environment = raw.Environment

	if len(raw.Storage) > 0 {
		stage.Storage = make(map[string]Storage, len(raw.Storage))
		for role, s := range raw.Storage {
			storage, err := NewStorage(role, s.Type, s.HostPath, s.VolumeName, s.DstPath)
			if err != nil {
				fail(err)
				continue
			}
			stage.Storage[role] = storage
		}
	}

	if raw.Custom != nil {
		if stage.Scripts, err = NewScripts(raw.Custom.OnBuild, raw.Custom.OnFirstRun,
			raw.Custom.OnEveryRun, raw.Custom.OnUserLogin, raw.Custom.OnEntry); err != nil {
			fail(err)
		}
	}

	return stage
}
