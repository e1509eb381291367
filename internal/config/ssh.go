package config

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pubkeyTextRe  = regexp.MustCompile(`^(ssh-rsa|ssh-dss|ssh-ed25519|ecdsa-sha2-\S+)\s+\S+`)
	privkeyTextRe = regexp.MustCompile(`-----BEGIN (?:(?:OPENSSH|RSA|DSA|EC) )?PRIVATE KEY-----`)
)

// SSHUser describes one account created inside the image. At least one
// credential (password, public key, or private key) must be present. Key
// material may come from a file path or inline text, but never both.
type SSHUser struct {
	Password    string
	PubkeyFile  string
	PubkeyText  string
	PrivkeyFile string
	PrivkeyText string
	// UID of the account. Zero means unassigned; by convention explicit
	// UIDs start at 1100 to stay clear of system accounts.
	UID int
}

// NewSSHUser validates and returns an SSHUser for the named account.
func NewSSHUser(name, password, pubkeyFile, pubkeyText, privkeyFile, privkeyText string, uid int) (SSHUser, error) {
	field := func(f string) string { return fmt.Sprintf("ssh.users.%s.%s", name, f) }

	if strings.ContainsAny(password, " ,") {
		return SSHUser{}, errf(field("password"), password, "must not contain spaces or commas")
	}
	if pubkeyFile != "" && pubkeyText != "" {
		return SSHUser{}, errf(field("pubkey_file"), pubkeyFile, "pubkey_file and pubkey_text are mutually exclusive")
	}
	if privkeyFile != "" && privkeyText != "" {
		return SSHUser{}, errf(field("privkey_file"), privkeyFile, "privkey_file and privkey_text are mutually exclusive")
	}
	if password == "" && pubkeyFile == "" && pubkeyText == "" && privkeyFile == "" && privkeyText == "" {
		return SSHUser{}, errf(field(""), name, "needs a password, a public key, or a private key")
	}
	if pubkeyText != "" && !pubkeyTextRe.MatchString(strings.TrimSpace(pubkeyText)) {
		return SSHUser{}, errf(field("pubkey_text"), firstLine(pubkeyText),
			"not a recognised public key (expected ssh-rsa, ssh-dss, ssh-ed25519 or ecdsa-sha2-*)")
	}
	if privkeyText != "" && !privkeyTextRe.MatchString(privkeyText) {
		return SSHUser{}, errf(field("privkey_text"), firstLine(privkeyText),
			"not a recognised private key (expected a PEM PRIVATE KEY block)")
	}
	if uid < 0 {
		return SSHUser{}, errf(field("uid"), fmt.Sprint(uid), "must not be negative")
	}

	return SSHUser{
		Password:    password,
		PubkeyFile:  pubkeyFile,
		PubkeyText:  pubkeyText,
		PrivkeyFile: privkeyFile,
		PrivkeyText: privkeyText,
		UID:         uid,
	}, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// SSH configures the in-container SSH server and its accounts.
type SSH struct {
	// Enable turns the SSH server on. Defaults to true in the loader.
	Enable bool
	// Port the server listens on inside the container.
	Port int
	// HostPort is the host-side port the container port is published to.
	// Zero leaves publishing to the compose/run layer.
	HostPort int
	// Users maps account name to its definition. Iteration order is
	// irrelevant to the build semantics.
	Users map[string]SSHUser
}

// NewSSH validates and returns an SSH config. A zero port defaults to 22.
func NewSSH(enable bool, port, hostPort int, users map[string]SSHUser) (SSH, error) {
	if port == 0 {
		port = 22
	}
	if port < 1 || port > 65535 {
		return SSH{}, errf("ssh.port", fmt.Sprint(port), "must be between 1 and 65535")
	}
	if hostPort < 0 || hostPort > 65535 {
		return SSH{}, errf("ssh.host_port", fmt.Sprint(hostPort), "must be between 1 and 65535")
	}
	return SSH{Enable: enable, Port: port, HostPort: hostPort, Users: users}, nil
}
